package workflow

import (
	"context"

	"github.com/google/uuid"

	"scholarhub/internal/domain"
	"scholarhub/internal/notify"
)

// notifyUser records an in-app notification. Failures are logged and
// swallowed: a notification must never fail the owning procedure.
func (c *Coordinator) notifyUser(ctx context.Context, st domain.Store, userID, title, message string, severity domain.NotificationSeverity, relatedType, relatedID string) {
	n := &domain.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Message:     message,
		Severity:    severity,
		RelatedType: relatedType,
		RelatedID:   relatedID,
	}
	if err := st.Notifications().Create(ctx, n); err != nil {
		c.log.Error().Err(err).Str("user_id", userID).Msg("notification insert failed")
	}
}

// email enqueues an outbox message for the worker to deliver. Same policy as
// notifyUser: log and move on.
func (c *Coordinator) email(ctx context.Context, st domain.Store, topic, recipientID string, data map[string]string) {
	payload, err := notify.Encode(recipientID, data)
	if err != nil {
		c.log.Error().Err(err).Str("topic", topic).Msg("outbox payload encode failed")
		return
	}
	if err := st.Outbox().Enqueue(ctx, topic, payload); err != nil {
		c.log.Error().Err(err).Str("topic", topic).Msg("outbox enqueue failed")
	}
}

// audit appends to the admin activity trail. Append-only; errors are
// propagated since the trail is part of the reviewed transaction.
func (c *Coordinator) audit(ctx context.Context, st domain.Store, adminID, action string, details []byte, country string) error {
	return st.Activity().Append(ctx, &domain.ActivityEntry{
		ID:      uuid.NewString(),
		AdminID: adminID,
		Action:  action,
		Details: details,
		Country: country,
	})
}
