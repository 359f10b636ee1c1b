package infra

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const txMaxAttempts = 3

// TxRunner is the single atomic-workflow primitive. Every multi-row state
// change in the system goes through Atomic: the callback either commits as a
// whole or leaves no trace. Serialization aborts are retried with a short
// backoff; the callback must therefore be side-effect free until commit.
type TxRunner struct {
	Pool    *pgxpool.Pool
	Logger  zerolog.Logger
	OnRetry func()
}

func NewTxRunner(pool *pgxpool.Pool, logger zerolog.Logger) *TxRunner {
	return &TxRunner{Pool: pool, Logger: logger}
}

// Atomic runs fn inside one transaction. The executor handed to fn strips
// and validates sqlinline markers the same way the pool runner does.
func (r *TxRunner) Atomic(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := r.once(ctx, fn)
		if err == nil {
			return nil
		}
		if !retryableTxError(err) {
			return err
		}
		lastErr = err
		r.Logger.Warn().Err(err).Int("attempt", attempt).Msg("transaction aborted, retrying")
		if r.OnRetry != nil {
			r.OnRetry()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return lastErr
}

func (r *TxRunner) once(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		// no-op when the transaction already committed
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, txExecutor{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// retryableTxError reports whether the error is a snapshot conflict the
// caller did not cause: serialization_failure or deadlock_detected.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
