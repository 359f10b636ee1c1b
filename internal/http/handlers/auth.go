package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
	"scholarhub/internal/workflow"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	DonorType string `json:"donor_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type userDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.Password) < 8 {
		a.fail(w, domain.Validation("password must be at least 8 characters"))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.fail(w, err)
		return
	}
	user, err := a.Flow.RegisterUser(r.Context(), workflow.RegisterInput{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.UserRole(req.Role),
		DonorType:    domain.DonorType(req.DonorType),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	token, err := a.signToken(user)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, authResponse{Token: token, User: toUserDTO(user)})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	st := a.store()
	user, err := st.Users().GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		a.fail(w, err)
		return
	}
	now := time.Now()
	if user.Locked(now) {
		a.fail(w, domain.ErrAccountLocked)
		return
	}
	if !user.Active {
		a.error(w, http.StatusUnauthorized, "account deactivated")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		var lockedUntil *time.Time
		if user.FailedLogins+1 >= a.MaxLogins {
			until := now.Add(a.Lockout)
			lockedUntil = &until
		}
		if err := st.Users().RecordLoginFailure(r.Context(), user.ID, lockedUntil); err != nil {
			a.Logger.Error().Err(err).Msg("record login failure")
		}
		a.error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.FailedLogins > 0 || user.LockedUntil != nil {
		if err := st.Users().ResetLoginFailures(r.Context(), user.ID); err != nil {
			a.Logger.Error().Err(err).Msg("reset login failures")
		}
	}
	token, err := a.signToken(user)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, authResponse{Token: token, User: toUserDTO(user)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "missing user context")
		return
	}
	st := a.store()
	user, err := st.Users().GetByID(r.Context(), userID)
	if err != nil {
		a.fail(w, err)
		return
	}
	out := map[string]any{"user": toUserDTO(user)}
	switch user.Role {
	case domain.UserRoleStudent:
		if profile, err := st.Students().GetProfile(r.Context(), userID); err == nil {
			out["profile"] = studentProfileDTO(profile)
		}
	case domain.UserRoleDonor:
		if profile, err := st.Donors().GetProfile(r.Context(), userID); err == nil {
			out["profile"] = map[string]any{
				"donor_type":          profile.DonorType,
				"total_donated_cents": profile.TotalDonatedCents,
			}
		}
	}
	a.json(w, http.StatusOK, out)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *App) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.NewPassword) < 8 {
		a.fail(w, domain.Validation("password must be at least 8 characters"))
		return
	}
	user, err := a.store().Users().GetByID(r.Context(), userID)
	if err != nil {
		a.fail(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		a.error(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Flow.ChangePassword(r.Context(), userID, string(hash)); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

// TokenVersion resolves the live token version for the auth middleware.
// Deactivated accounts return no row, which revokes their tokens.
func (a *App) TokenVersion(ctx context.Context, userID string) (int, error) {
	return a.store().Users().TokenVersion(ctx, userID)
}

func (a *App) signToken(user *domain.User) (string, error) {
	return middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:          user.ID,
		Role:         string(user.Role),
		TokenVersion: user.TokenVersion,
		Exp:          time.Now().Add(24 * time.Hour).Unix(),
		Issuer:       "scholarhub",
		Audience:     "scholarhub-clients",
	})
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Role: string(u.Role), Verified: u.Verified}
}
