package repo

import (
	"context"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// NotificationRepositoryPG implements domain.NotificationStore backed by PostgreSQL.
type NotificationRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *NotificationRepositoryPG) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertNotification,
		n.ID, n.UserID, n.Title, n.Message, n.Severity, n.RelatedType, n.RelatedID)
	return err
}

func (r *NotificationRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := r.db.Query(ctx, sqlinline.QListNotifications, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Severity,
			&n.RelatedType, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QMarkNotificationRead, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// OutboxRepositoryPG implements domain.OutboxStore backed by PostgreSQL.
type OutboxRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *OutboxRepositoryPG) Enqueue(ctx context.Context, topic string, payload []byte) error {
	_, err := r.db.Exec(ctx, sqlinline.QEnqueueOutbox, topic, payload)
	return err
}

func (r *OutboxRepositoryPG) PendingBatch(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, sqlinline.QSelectOutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OutboxMessage
	for rows.Next() {
		var m domain.OutboxMessage
		if err := rows.Scan(&m.ID, &m.Topic, &m.Payload, &m.Attempts, &m.CreatedAt, &m.DispatchedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *OutboxRepositoryPG) MarkDispatched(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, sqlinline.QMarkOutboxDispatched, id)
	return err
}

func (r *OutboxRepositoryPG) MarkFailed(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, sqlinline.QMarkOutboxFailed, id)
	return err
}

// ActivityRepositoryPG implements domain.ActivityStore backed by PostgreSQL.
type ActivityRepositoryPG struct {
	db infra.SQLExecutor
}

func (r *ActivityRepositoryPG) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertActivity,
		entry.ID, entry.AdminID, entry.Action, entry.Details, entry.Country)
	return err
}
