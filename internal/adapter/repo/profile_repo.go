package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// StudentRepositoryPG implements domain.StudentStore backed by PostgreSQL.
type StudentRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *StudentRepositoryPG) CreateProfile(ctx context.Context, p *domain.StudentProfile) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertStudentProfile,
		p.UserID, p.Institution, p.Program, p.YearOfStudy, p.GPA.String(), p.Financial, p.ProfileComplete)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *StudentRepositoryPG) GetProfile(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	var (
		p   domain.StudentProfile
		gpa string
	)
	err := r.db.QueryRow(ctx, sqlinline.QSelectStudentProfile, userID).Scan(
		&p.UserID, &p.Institution, &p.Program, &p.YearOfStudy, &gpa, &p.Financial, &p.ProfileComplete)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if p.GPA, err = decimal.NewFromString(gpa); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *StudentRepositoryPG) UpdateProfile(ctx context.Context, p *domain.StudentProfile) error {
	tag, err := r.db.Exec(ctx, sqlinline.QUpdateStudentProfile,
		p.UserID, p.Institution, p.Program, p.YearOfStudy, p.GPA.String(), p.Financial, p.ProfileComplete)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DonorRepositoryPG implements domain.DonorStore backed by PostgreSQL.
type DonorRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *DonorRepositoryPG) CreateProfile(ctx context.Context, p *domain.DonorProfile) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertDonorProfile, p.UserID, p.DonorType)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *DonorRepositoryPG) GetProfile(ctx context.Context, userID string) (*domain.DonorProfile, error) {
	var p domain.DonorProfile
	err := r.db.QueryRow(ctx, sqlinline.QSelectDonorProfile, userID).Scan(
		&p.UserID, &p.DonorType, &p.TotalDonatedCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// AddToTotal moves the denormalized running total. Negative deltas floor at
// zero; the reconciler repairs any drift from source payment rows.
func (r *DonorRepositoryPG) AddToTotal(ctx context.Context, userID string, deltaCents int64) error {
	tag, err := r.db.Exec(ctx, sqlinline.QAddDonorTotal, userID, deltaCents)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
