package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// stubSQL records the last call and answers from canned functions.
type stubSQL struct {
	lastQuery string
	lastArgs  []any
	execTag   string
	execErr   error
	row       func(dest ...any) error
	rows      [][]any
}

func (s *stubSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.lastQuery, s.lastArgs = query, args
	return pgconn.NewCommandTag(s.execTag), s.execErr
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.lastQuery, s.lastArgs = query, args
	return simpleRow{scan: s.row}
}

func (s *stubSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.lastQuery, s.lastArgs = query, args
	return &stubRows{data: s.rows, idx: -1}, nil
}

type stubRows struct {
	data [][]any
	idx  int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }
func (r *stubRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *stubRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *stubRows) Scan(dest ...any) error {
	return assign(r.data[r.idx], dest)
}

// assign copies src values into scan destinations by pointer type.
func assign(src []any, dest []any) error {
	if len(src) != len(dest) {
		return fmt.Errorf("scan: got %d destinations, have %d values", len(dest), len(src))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = src[i].(string)
		case *int:
			*p = src[i].(int)
		case *bool:
			*p = src[i].(bool)
		case *[]byte:
			*p = src[i].([]byte)
		default:
			if err := assignTime(p, src[i]); err != nil {
				return fmt.Errorf("scan column %d: %w", i, err)
			}
		}
	}
	return nil
}

func assignTime(dest any, v any) error {
	switch p := dest.(type) {
	case *time.Time:
		*p = v.(time.Time)
	case **time.Time:
		if v == nil {
			*p = nil
			return nil
		}
		t := v.(time.Time)
		*p = &t
	default:
		return fmt.Errorf("unsupported destination %T", dest)
	}
	return nil
}
