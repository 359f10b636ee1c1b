package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
)

// Runner abstracts the atomic-workflow primitive so tests can run procedures
// against an in-memory store. infra.TxRunner is the production implementation.
type Runner interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, exec infra.SQLExecutor) error) error
}

// StoreFactory binds repositories to the executor of the current transaction.
type StoreFactory func(exec infra.SQLExecutor) domain.Store

// Coordinator owns every multi-row state transition in the system: apply,
// review, fund, refund, withdraw and scholarship review. Each procedure runs
// as one transaction; on any error all of its mutations roll back together,
// so partial funding or refund state is never observable.
type Coordinator struct {
	run   Runner
	store StoreFactory
	log   zerolog.Logger
	now   func() time.Time
}

func NewCoordinator(run Runner, store StoreFactory, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		run:   run,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// atomic wraps Runner.Atomic with per-operation metrics and logging.
func (c *Coordinator) atomic(ctx context.Context, op string, fn func(ctx context.Context, st domain.Store) error) error {
	err := c.run.Atomic(ctx, func(ctx context.Context, exec infra.SQLExecutor) error {
		return fn(ctx, c.store(exec))
	})
	if err != nil {
		workflowTotal.WithLabelValues(op, "error").Inc()
		c.log.Debug().Err(err).Str("op", op).Msg("workflow aborted")
		return err
	}
	workflowTotal.WithLabelValues(op, "ok").Inc()
	return nil
}
