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

// ApplicationRepositoryPG implements domain.ApplicationStore backed by
// PostgreSQL. The unique index on (student_id, scholarship_id) is the
// authority behind the one-application-per-pair invariant; a violation
// surfaces as domain.ErrConflict even when two submissions race.
type ApplicationRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *ApplicationRepositoryPG) Create(ctx context.Context, a *domain.Application) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertApplication,
		a.ID, a.StudentID, a.ScholarshipID, a.Status, a.AppliedAt, a.Essays, a.Documents)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *ApplicationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, sqlinline.QSelectApplicationByID, id))
}

func (r *ApplicationRepositoryPG) GetByStudentAndScholarship(ctx context.Context, studentID, scholarshipID string) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, sqlinline.QSelectApplicationByPair, studentID, scholarshipID))
}

func (r *ApplicationRepositoryPG) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	return r.list(ctx, sqlinline.QListApplicationsByStudent, studentID)
}

func (r *ApplicationRepositoryPG) ListByScholarship(ctx context.Context, scholarshipID string) ([]domain.Application, error) {
	return r.list(ctx, sqlinline.QListApplicationsByScholarship, scholarshipID)
}

func (r *ApplicationRepositoryPG) list(ctx context.Context, query, id string) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *ApplicationRepositoryPG) RecordReview(ctx context.Context, id string, status domain.ApplicationStatus, reviewerID string, reviewedAt time.Time, comments, rejectionReason string) error {
	return r.exec(ctx, sqlinline.QRecordReview, id, status, reviewerID, reviewedAt, comments, rejectionReason)
}

func (r *ApplicationRepositoryPG) MarkFunded(ctx context.Context, id, donorID string, fundedAt time.Time) error {
	return r.exec(ctx, sqlinline.QMarkApplicationFunded, id, donorID, fundedAt)
}

func (r *ApplicationRepositoryPG) RevertFunding(ctx context.Context, id string) error {
	return r.exec(ctx, sqlinline.QRevertApplicationFunding, id)
}

func (r *ApplicationRepositoryPG) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, sqlinline.QDeleteApplication, id)
}

func (r *ApplicationRepositoryPG) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(
		&a.ID, &a.StudentID, &a.ScholarshipID, &a.Status, &a.AppliedAt,
		&a.ReviewedBy, &a.ReviewedAt, &a.ReviewComments, &a.RejectionReason,
		&a.FundedBy, &a.FundedAt, &a.Essays, &a.Documents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
