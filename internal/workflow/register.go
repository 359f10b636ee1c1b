package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"scholarhub/internal/domain"
)

// RegisterInput carries a new account. Role is one of student or donor;
// admin accounts are bootstrapped through the ops CLI, never self-service.
type RegisterInput struct {
	Email        string
	PasswordHash string
	Role         domain.UserRole
	DonorType    domain.DonorType
}

// RegisterUser inserts the identity row and its role profile atomically.
// A taken email fails conflict.
func (c *Coordinator) RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	var msgs []string
	if !strings.Contains(in.Email, "@") {
		msgs = append(msgs, "a valid email is required")
	}
	if in.Role != domain.UserRoleStudent && in.Role != domain.UserRoleDonor {
		msgs = append(msgs, "role must be student or donor")
	}
	if err := domain.Validation(msgs...); err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
	}
	err := c.atomic(ctx, "register", func(ctx context.Context, st domain.Store) error {
		if err := st.Users().Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("email already registered: %w", domain.ErrConflict)
			}
			return err
		}
		switch in.Role {
		case domain.UserRoleStudent:
			return st.Students().CreateProfile(ctx, &domain.StudentProfile{
				UserID: user.ID,
				GPA:    decimal.Zero,
			})
		case domain.UserRoleDonor:
			donorType := in.DonorType
			if donorType == "" {
				donorType = domain.DonorTypeIndividual
			}
			return st.Donors().CreateProfile(ctx, &domain.DonorProfile{
				UserID:    user.ID,
				DonorType: donorType,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword swaps the hash and revokes every outstanding token by
// bumping the token version, in one transaction.
func (c *Coordinator) ChangePassword(ctx context.Context, userID, newHash string) error {
	return c.atomic(ctx, "change_password", func(ctx context.Context, st domain.Store) error {
		if err := st.Users().UpdatePassword(ctx, userID, newHash); err != nil {
			return err
		}
		return st.Users().BumpTokenVersion(ctx, userID)
	})
}
