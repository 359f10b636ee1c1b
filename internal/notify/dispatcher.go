package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"scholarhub/internal/domain"
)

// Dispatcher drains the transactional outbox and turns rows into emails.
// Delivery is at-least-once: a send failure bumps the attempt counter and the
// row is retried on a later pass until the attempt cap in the pending query.
type Dispatcher struct {
	Store  domain.Store
	Mailer Mailer
	Logger zerolog.Logger
	Batch  int
}

// RunOnce drains up to one batch and reports how many emails were sent.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	batch := d.Batch
	if batch <= 0 {
		batch = 20
	}
	pending, err := d.Store.Outbox().PendingBatch(ctx, batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range pending {
		if err := d.dispatch(ctx, msg); err != nil {
			d.Logger.Error().Err(err).Str("outbox_id", msg.ID).Str("topic", msg.Topic).Msg("outbox dispatch failed")
			if err := d.Store.Outbox().MarkFailed(ctx, msg.ID); err != nil {
				d.Logger.Error().Err(err).Str("outbox_id", msg.ID).Msg("outbox mark failed errored")
			}
			continue
		}
		if err := d.Store.Outbox().MarkDispatched(ctx, msg.ID); err != nil {
			d.Logger.Error().Err(err).Str("outbox_id", msg.ID).Msg("outbox mark dispatched errored")
			continue
		}
		sent++
	}
	return sent, nil
}

// Run polls until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.RunOnce(ctx); err != nil {
				d.Logger.Error().Err(err).Msg("outbox poll failed")
			}
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, msg domain.OutboxMessage) error {
	var event EmailEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return err
	}
	recipient, err := d.Store.Users().GetByID(ctx, event.RecipientID)
	if err != nil {
		return err
	}
	subject, body := Render(msg.Topic, event.Data)
	return d.Mailer.Send(ctx, recipient.Email, subject, body)
}
