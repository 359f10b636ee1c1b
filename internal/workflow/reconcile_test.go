package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarhub/internal/infra"
	"scholarhub/internal/sqlinline"
)

// stubRows iterates canned row tuples as pgx.Rows.
type stubRows struct {
	rows [][]any
	idx  int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }

func (r *stubRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *stubRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = row[i].(string)
		case *int:
			*v = row[i].(int)
		case *int64:
			*v = row[i].(int64)
		default:
			return fmt.Errorf("unsupported scan destination %T", d)
		}
	}
	return nil
}

// driftExec feeds canned drift rows per query and records repair statements.
type driftExec struct {
	queries  map[string][][]any
	execLog  []string
	execArgs [][]any
}

func (e *driftExec) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	e.execLog = append(e.execLog, query)
	e.execArgs = append(e.execArgs, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (e *driftExec) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (e *driftExec) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	return &stubRows{rows: e.queries[query]}, nil
}

// execRunner hands the reconciler a fixed executor in place of a real
// transaction.
type execRunner struct {
	exec infra.SQLExecutor
}

func (r execRunner) Atomic(ctx context.Context, fn func(ctx context.Context, exec infra.SQLExecutor) error) error {
	return fn(ctx, r.exec)
}

func TestReconcileRepairsDrift(t *testing.T) {
	exec := &driftExec{queries: map[string][][]any{
		sqlinline.QSelectScholarshipDrift: {
			{"sch-1", 5, 2, 1, 4, 2, 1},
			{"sch-2", 0, 0, 0, 1, 0, 0},
		},
		sqlinline.QSelectDonorDrift: {
			{"donor-1", int64(100000), int64(250000)},
		},
		sqlinline.QExpireScholarships: {
			{"sch-3"},
		},
	}}
	r := NewReconciler(execRunner{exec: exec}, zerolog.Nop())

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Scholarships, 2)
	assert.Equal(t, "sch-1", report.Scholarships[0].ScholarshipID)
	assert.Equal(t, 5, report.Scholarships[0].StoredApplicant)
	assert.Equal(t, 4, report.Scholarships[0].ActualApplicant)
	require.Len(t, report.Donors, 1)
	assert.Equal(t, int64(250000), report.Donors[0].ActualCents)
	assert.Equal(t, []string{"sch-3"}, report.Expired)

	require.Len(t, exec.execLog, 3)
	assert.Equal(t, sqlinline.QFixScholarshipCounters, exec.execLog[0])
	assert.Equal(t, []any{"sch-1"}, exec.execArgs[0])
	assert.Equal(t, sqlinline.QFixScholarshipCounters, exec.execLog[1])
	assert.Equal(t, []any{"sch-2"}, exec.execArgs[1])
	assert.Equal(t, sqlinline.QFixDonorTotal, exec.execLog[2])
	assert.Equal(t, []any{"donor-1"}, exec.execArgs[2])
}

func TestReconcileCleanPass(t *testing.T) {
	exec := &driftExec{queries: map[string][][]any{}}
	r := NewReconciler(execRunner{exec: exec}, zerolog.Nop())

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Scholarships)
	assert.Empty(t, report.Donors)
	assert.Empty(t, report.Expired)
	assert.Empty(t, exec.execLog)
}
