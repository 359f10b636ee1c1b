package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserStore backed by PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

// Create inserts a new identity record. A duplicate email surfaces as
// domain.ErrConflict.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	row := r.db.QueryRow(ctx, sqlinline.QInsertUser,
		user.ID, user.Email, user.PasswordHash, user.Role)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	user.Active = true
	return nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// RecordLoginFailure increments the failure counter and, when lockedUntil is
// set, starts the lockout window.
func (r *UserRepositoryPG) RecordLoginFailure(ctx context.Context, id string, lockedUntil *time.Time) error {
	_, err := r.db.Exec(ctx, sqlinline.QRecordLoginFailure, id, lockedUntil)
	return err
}

// ResetLoginFailures clears the counter and lockout after a successful login.
func (r *UserRepositoryPG) ResetLoginFailures(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, sqlinline.QResetLoginFailures, id)
	return err
}

// BumpTokenVersion invalidates every outstanding token for the user.
func (r *UserRepositoryPG) BumpTokenVersion(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, sqlinline.QBumpTokenVersion, id)
	return err
}

// UpdatePassword replaces the stored hash. Callers bump the token version in
// the same transaction to revoke outstanding sessions.
func (r *UserRepositoryPG) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QUpdatePassword, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive soft-deactivates or restores an account.
func (r *UserRepositoryPG) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx, sqlinline.QSetUserActive, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TokenVersion returns the current token version for an active user. Used by
// the auth middleware to reject tokens issued before a credential change.
func (r *UserRepositoryPG) TokenVersion(ctx context.Context, id string) (int, error) {
	var v int
	if err := r.db.QueryRow(ctx, sqlinline.QSelectTokenVersion, id).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return v, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.Verified,
		&u.FailedLogins, &u.LockedUntil, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
