package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
	"scholarhub/internal/sqlinline"
	"scholarhub/internal/workflow"
)

type statsSummary struct {
	Students           int64 `json:"students"`
	Donors             int64 `json:"donors"`
	ActiveScholarships int64 `json:"active_scholarships"`
	Applications       int64 `json:"applications"`
	PendingReviews     int64 `json:"pending_reviews"`
	FundedApplications int64 `json:"funded_applications"`
	DonatedCents       int64 `json:"donated_cents"`
	Refunds            int64 `json:"refunds"`
}

// AdminStats returns platform-wide aggregates computed live from the
// canonical tables, not from the denormalized counters.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	var s statsSummary
	err := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary).Scan(
		&s.Students, &s.Donors, &s.ActiveScholarships, &s.Applications,
		&s.PendingReviews, &s.FundedApplications, &s.DonatedCents, &s.Refunds,
	)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"stats": s})
}

// ListPendingScholarships returns donor-submitted offers awaiting review.
func (a *App) ListPendingScholarships(w http.ResponseWriter, r *http.Request) {
	list, err := a.store().Scholarships().List(r.Context(), domain.ScholarshipFilter{
		Status: domain.ScholarshipPendingApproval,
		Limit:  100,
	})
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

type userActiveRequest struct {
	Active bool `json:"active"`
}

// SetUserActive deactivates or restores an account. Deactivation also
// revokes outstanding tokens because the auth middleware only resolves
// token versions for active users.
func (a *App) SetUserActive(w http.ResponseWriter, r *http.Request) {
	var req userActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id := chi.URLParam(r, "id")
	if id == middleware.UserIDFromContext(r.Context()) && !req.Active {
		a.error(w, http.StatusConflict, "cannot deactivate your own account")
		return
	}
	if err := a.store().Users().SetActive(r.Context(), id, req.Active); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "active": req.Active})
}

type scholarshipReviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// ReviewScholarship decides a pending donor-submitted offer.
func (a *App) ReviewScholarship(w http.ResponseWriter, r *http.Request) {
	var req scholarshipReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	sch, err := a.Flow.ReviewScholarship(r.Context(), workflow.ScholarshipReviewInput{
		ScholarshipID: chi.URLParam(r, "id"),
		AdminID:       middleware.UserIDFromContext(r.Context()),
		Approve:       req.Approve,
		Reason:        req.Reason,
		Country:       middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"scholarship": scholarshipDTO(sch)})
}
