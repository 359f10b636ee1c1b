package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
	"scholarhub/internal/workflow"
)

type scholarshipDTOOut struct {
	ID              string   `json:"id"`
	CreatorID       string   `json:"creator_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	AmountCents     int64    `json:"amount_cents"`
	Deadline        string   `json:"deadline"`
	Category        string   `json:"category"`
	MinGPA          string   `json:"min_gpa"`
	RequiredDocs    []string `json:"required_documents"`
	Institutions    []string `json:"eligible_institutions"`
	Programs        []string `json:"eligible_programs"`
	Status          string   `json:"status"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	ApplicantCount  int      `json:"applicant_count"`
	ApprovedCount   int      `json:"approved_count"`
	FundedCount     int      `json:"funded_count"`
}

func scholarshipDTO(s *domain.Scholarship) scholarshipDTOOut {
	return scholarshipDTOOut{
		ID:              s.ID,
		CreatorID:       s.CreatorID,
		Title:           s.Title,
		Description:     s.Description,
		AmountCents:     s.AmountCents,
		Deadline:        s.Deadline.Format("2006-01-02T15:04:05Z07:00"),
		Category:        s.Category,
		MinGPA:          s.Criteria.MinGPA.StringFixed(2),
		RequiredDocs:    s.Criteria.RequiredDocuments,
		Institutions:    s.Criteria.EligibleInstitutions,
		Programs:        s.Criteria.EligiblePrograms,
		Status:          string(s.Status),
		RejectionReason: s.RejectionReason,
		ApplicantCount:  s.ApplicantCount,
		ApprovedCount:   s.ApprovedCount,
		FundedCount:     s.FundedCount,
	}
}

// ListScholarships returns visible active scholarships, optionally filtered
// by category. Public, no auth required.
func (a *App) ListScholarships(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	filter := domain.ScholarshipFilter{
		Category:    r.URL.Query().Get("category"),
		Status:      domain.ScholarshipActive,
		VisibleOnly: true,
		Limit:       limit,
	}
	list, err := a.store().Scholarships().List(r.Context(), filter)
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]scholarshipDTOOut, 0, len(list))
	for i := range list {
		out = append(out, scholarshipDTO(&list[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"scholarships": out})
}

// GetScholarship returns one scholarship by id. Hidden scholarships are only
// visible to their creator and to admins.
func (a *App) GetScholarship(w http.ResponseWriter, r *http.Request) {
	sch, err := a.store().Scholarships().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if !sch.Visible {
		callerID := middleware.UserIDFromContext(r.Context())
		role := middleware.RoleFromContext(r.Context())
		if callerID != sch.CreatorID && role != string(domain.UserRoleAdmin) {
			a.fail(w, domain.ErrNotFound)
			return
		}
	}
	a.json(w, http.StatusOK, map[string]any{"scholarship": scholarshipDTO(sch)})
}

type createScholarshipRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	AmountCents  int64    `json:"amount_cents"`
	Deadline     string   `json:"deadline"`
	Category     string   `json:"category"`
	MinGPA       string   `json:"min_gpa"`
	Required     []string `json:"required_documents"`
	Institutions []string `json:"eligible_institutions"`
	Programs     []string `json:"eligible_programs"`
}

// CreateScholarship accepts a new offer from an admin or a donor.
func (a *App) CreateScholarship(w http.ResponseWriter, r *http.Request) {
	var req createScholarshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	role := domain.UserRole(middleware.RoleFromContext(r.Context()))
	if role != domain.UserRoleAdmin && role != domain.UserRoleDonor {
		a.fail(w, domain.ErrForbidden)
		return
	}
	sch, err := a.Flow.CreateScholarship(r.Context(), workflow.CreateScholarshipInput{
		CreatorID:    middleware.UserIDFromContext(r.Context()),
		CreatorRole:  role,
		Title:        req.Title,
		Description:  req.Description,
		AmountCents:  req.AmountCents,
		Deadline:     req.Deadline,
		Category:     req.Category,
		MinGPA:       req.MinGPA,
		Required:     req.Required,
		Institutions: req.Institutions,
		Programs:     req.Programs,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"scholarship": scholarshipDTO(sch)})
}

// CloseScholarship takes an active offer off the board. Admin only.
func (a *App) CloseScholarship(w http.ResponseWriter, r *http.Request) {
	err := a.Flow.CloseScholarship(r.Context(),
		chi.URLParam(r, "id"),
		middleware.UserIDFromContext(r.Context()),
		middleware.CountryFromContext(r.Context()))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

type applyRequest struct {
	Essays    map[string]string   `json:"essays"`
	Documents []workflow.Document `json:"documents"`
}

// Apply submits the caller's application for the scholarship in the path.
func (a *App) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	app, err := a.Flow.Apply(r.Context(), workflow.ApplyInput{
		StudentID:     middleware.UserIDFromContext(r.Context()),
		ScholarshipID: chi.URLParam(r, "id"),
		Essays:        req.Essays,
		Documents:     req.Documents,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"application": applicationDTO(app)})
}
