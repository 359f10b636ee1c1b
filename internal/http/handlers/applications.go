package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
	"scholarhub/internal/workflow"
)

type applicationDTOOut struct {
	ID              string          `json:"id"`
	StudentID       string          `json:"student_id"`
	ScholarshipID   string          `json:"scholarship_id"`
	Status          string          `json:"status"`
	AppliedAt       string          `json:"applied_at"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	ReviewComments  string          `json:"review_comments,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	FundedBy        *string         `json:"funded_by,omitempty"`
	Essays          json.RawMessage `json:"essays,omitempty"`
	Documents       json.RawMessage `json:"documents,omitempty"`
}

func applicationDTO(app *domain.Application) applicationDTOOut {
	return applicationDTOOut{
		ID:              app.ID,
		StudentID:       app.StudentID,
		ScholarshipID:   app.ScholarshipID,
		Status:          string(app.Status),
		AppliedAt:       app.AppliedAt.Format("2006-01-02T15:04:05Z07:00"),
		ReviewedBy:      app.ReviewedBy,
		ReviewComments:  app.ReviewComments,
		RejectionReason: app.RejectionReason,
		FundedBy:        app.FundedBy,
		Essays:          app.Essays,
		Documents:       app.Documents,
	}
}

// ListMyApplications returns the caller's own applications.
func (a *App) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	list, err := a.store().Applications().ListByStudent(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]applicationDTOOut, 0, len(list))
	for i := range list {
		out = append(out, applicationDTO(&list[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"applications": out})
}

// ListScholarshipApplications returns every application for one scholarship.
// Admin only; the router enforces the role.
func (a *App) ListScholarshipApplications(w http.ResponseWriter, r *http.Request) {
	list, err := a.store().Applications().ListByScholarship(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]applicationDTOOut, 0, len(list))
	for i := range list {
		out = append(out, applicationDTO(&list[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"applications": out})
}

type reviewRequest struct {
	Approve  bool   `json:"approve"`
	Comments string `json:"comments"`
}

// ReviewApplication records an admin decision on a pending application.
func (a *App) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	app, err := a.Flow.ReviewApplication(r.Context(), workflow.ReviewInput{
		ApplicationID: chi.URLParam(r, "id"),
		AdminID:       middleware.UserIDFromContext(r.Context()),
		Approve:       req.Approve,
		Comments:      req.Comments,
		Country:       middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"application": applicationDTO(app)})
}

type withdrawRequest struct {
	Reason string `json:"reason"`
}

// WithdrawApplication removes the caller's own pending or approved application.
func (a *App) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	err := a.Flow.Withdraw(r.Context(), workflow.WithdrawInput{
		StudentID:     middleware.UserIDFromContext(r.Context()),
		ApplicationID: chi.URLParam(r, "id"),
		Reason:        req.Reason,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}
