package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
)

type studentProfileRequest struct {
	Institution string          `json:"institution"`
	Program     string          `json:"program"`
	YearOfStudy int             `json:"year_of_study"`
	GPA         string          `json:"gpa"`
	Financial   json.RawMessage `json:"financial"`
}

// UpdateStudentProfile upserts the caller's student profile. ProfileComplete
// is derived here, never accepted from the client.
func (a *App) UpdateStudentProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	var req studentProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var msgs []string
	if req.Institution == "" {
		msgs = append(msgs, "institution is required")
	}
	if req.Program == "" {
		msgs = append(msgs, "program is required")
	}
	if req.YearOfStudy < 1 || req.YearOfStudy > 10 {
		msgs = append(msgs, "year_of_study must be between 1 and 10")
	}
	gpa, err := decimal.NewFromString(req.GPA)
	if err != nil {
		msgs = append(msgs, "gpa must be a decimal number")
	} else if gpa.IsNegative() || gpa.GreaterThan(decimal.NewFromInt(4)) {
		msgs = append(msgs, "gpa must be between 0.00 and 4.00")
	}
	if len(msgs) > 0 {
		a.fail(w, domain.Validation(msgs...))
		return
	}
	profile := &domain.StudentProfile{
		UserID:          userID,
		Institution:     req.Institution,
		Program:         req.Program,
		YearOfStudy:     req.YearOfStudy,
		GPA:             gpa,
		Financial:       req.Financial,
		ProfileComplete: len(req.Financial) > 0,
	}
	st := a.store()
	if err := st.Students().UpdateProfile(r.Context(), profile); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = st.Students().CreateProfile(r.Context(), profile)
		}
		if err != nil {
			a.fail(w, err)
			return
		}
	}
	a.json(w, http.StatusOK, map[string]any{"profile": studentProfileDTO(profile)})
}

func studentProfileDTO(p *domain.StudentProfile) map[string]any {
	return map[string]any{
		"user_id":          p.UserID,
		"institution":      p.Institution,
		"program":          p.Program,
		"year_of_study":    p.YearOfStudy,
		"gpa":              p.GPA.StringFixed(2),
		"financial":        p.Financial,
		"profile_complete": p.ProfileComplete,
	}
}
