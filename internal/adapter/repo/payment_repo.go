package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// PaymentRepositoryPG implements domain.PaymentStore backed by PostgreSQL.
// The unique index on external_txn_id makes payment creation idempotent
// under webhook replay.
type PaymentRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *PaymentRepositoryPG) Create(ctx context.Context, p *domain.Payment) error {
	history, err := json.Marshal(p.History)
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, sqlinline.QInsertPayment,
		p.ID, p.DonorID, p.StudentID, p.ScholarshipID, p.ApplicationID,
		p.AmountCents, p.Method, p.ExternalTxnID, p.Status, history)
	if err := row.Scan(&p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *PaymentRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, sqlinline.QSelectPaymentByID, id))
}

func (r *PaymentRepositoryPG) GetByExternalTxnID(ctx context.Context, txnID string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, sqlinline.QSelectPaymentByExternalTxn, txnID))
}

func (r *PaymentRepositoryPG) ListByDonor(ctx context.Context, donorID string, limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := r.db.Query(ctx, sqlinline.QListPaymentsByDonor, donorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// AppendEvent flips the payment status and appends to its history in one
// statement, keeping the history strictly append-only.
func (r *PaymentRepositoryPG) AppendEvent(ctx context.Context, id string, status domain.PaymentStatus, event domain.PaymentEvent) error {
	entry, err := json.Marshal([]domain.PaymentEvent{event})
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlinline.QAppendPaymentEvent, id, status, entry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p       domain.Payment
		history []byte
	)
	err := row.Scan(
		&p.ID, &p.DonorID, &p.StudentID, &p.ScholarshipID, &p.ApplicationID,
		&p.AmountCents, &p.Method, &p.ExternalTxnID, &p.Status, &history, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(history, &p.History); err != nil {
		return nil, err
	}
	return &p, nil
}
