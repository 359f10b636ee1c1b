package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// ScholarshipRepositoryPG implements domain.ScholarshipStore backed by PostgreSQL.
type ScholarshipRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *ScholarshipRepositoryPG) Create(ctx context.Context, s *domain.Scholarship) error {
	docs, err := json.Marshal(orEmpty(s.Criteria.RequiredDocuments))
	if err != nil {
		return err
	}
	institutions, err := json.Marshal(orEmpty(s.Criteria.EligibleInstitutions))
	if err != nil {
		return err
	}
	programs, err := json.Marshal(orEmpty(s.Criteria.EligiblePrograms))
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, sqlinline.QInsertScholarship,
		s.ID, s.CreatorID, s.Title, s.Description, s.AmountCents, s.Deadline, s.Category,
		s.Criteria.MinGPA.String(), docs, institutions, programs, s.Status, s.Visible)
	return row.Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *ScholarshipRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Scholarship, error) {
	return scanScholarship(r.db.QueryRow(ctx, sqlinline.QSelectScholarshipByID, id))
}

func (r *ScholarshipRepositoryPG) List(ctx context.Context, filter domain.ScholarshipFilter) ([]domain.Scholarship, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := r.db.Query(ctx, sqlinline.QListScholarships,
		filter.Category, string(filter.Status), filter.VisibleOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *ScholarshipRepositoryPG) SetStatus(ctx context.Context, id string, status domain.ScholarshipStatus, visible bool, reason string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QSetScholarshipStatus, id, status, visible, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ScholarshipRepositoryPG) AddApplicants(ctx context.Context, id string, delta int) error {
	return r.addCounter(ctx, sqlinline.QAddApplicantCount, id, delta)
}

func (r *ScholarshipRepositoryPG) AddApproved(ctx context.Context, id string, delta int) error {
	return r.addCounter(ctx, sqlinline.QAddApprovedCount, id, delta)
}

func (r *ScholarshipRepositoryPG) AddFunded(ctx context.Context, id string, delta int) error {
	return r.addCounter(ctx, sqlinline.QAddFundedCount, id, delta)
}

func (r *ScholarshipRepositoryPG) addCounter(ctx context.Context, query, id string, delta int) error {
	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanScholarship(row pgx.Row) (*domain.Scholarship, error) {
	var (
		s            domain.Scholarship
		minGPA       string
		docs         []byte
		institutions []byte
		programs     []byte
	)
	err := row.Scan(
		&s.ID, &s.CreatorID, &s.Title, &s.Description, &s.AmountCents, &s.Deadline, &s.Category,
		&minGPA, &docs, &institutions, &programs,
		&s.Status, &s.Visible, &s.RejectionReason,
		&s.ApplicantCount, &s.ApprovedCount, &s.FundedCount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if s.Criteria.MinGPA, err = decimal.NewFromString(minGPA); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docs, &s.Criteria.RequiredDocuments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(institutions, &s.Criteria.EligibleInstitutions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(programs, &s.Criteria.EligiblePrograms); err != nil {
		return nil, err
	}
	return &s, nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
