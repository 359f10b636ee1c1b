package handlers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SimpleRow adapts a scan function to pgx.Row for handler tests. A nil scan
// function behaves like an empty result set.
type SimpleRow struct {
	scan func(dest ...any) error
}

func NewSimpleRow(scanner func(dest ...any) error) SimpleRow {
	return SimpleRow{scan: scanner}
}

func (r SimpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// TestRowsBase supplies the pgx.Rows methods test iterators never exercise.
type TestRowsBase struct{}

func (TestRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (TestRowsBase) Conn() *pgx.Conn { return nil }

func (TestRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (TestRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (TestRowsBase) RawValues() [][]byte { return nil }

// StubSQL routes queries to canned scan functions keyed by the query text,
// and records every Exec so tests can assert on side-effect statements.
type StubSQL struct {
	Rows     map[string]func(dest ...any) error
	ExecLog  []string
	ExecArgs [][]any
}

func (s *StubSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.ExecLog = append(s.ExecLog, query)
	s.ExecArgs = append(s.ExecArgs, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (s *StubSQL) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	if scan, ok := s.Rows[query]; ok {
		return NewSimpleRow(scan)
	}
	return SimpleRow{}
}

func (s *StubSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not stubbed")
}
