package infra

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantBody   string
		wantErr    bool
	}{
		{
			name:       "valid marker",
			query:      "--sql 0f0557a2-1731-4fc6-8cbe-8540b1d2b6df\nselect 1;\n",
			wantMarker: "0f0557a2-1731-4fc6-8cbe-8540b1d2b6df",
			wantBody:   "select 1;",
		},
		{
			name:       "leading whitespace tolerated",
			query:      "\n   --sql 0f0557a2-1731-4fc6-8cbe-8540b1d2b6df\nselect 2;",
			wantMarker: "0f0557a2-1731-4fc6-8cbe-8540b1d2b6df",
			wantBody:   "select 2;",
		},
		{
			name:    "missing marker",
			query:   "select 1;",
			wantErr: true,
		},
		{
			name:    "malformed uuid",
			query:   "--sql not-a-uuid\nselect 1;",
			wantErr: true,
		},
		{
			name:    "empty",
			query:   "   ",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := extractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("extractMarker() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMarker() unexpected error: %v", err)
			}
			if marker != tc.wantMarker {
				t.Fatalf("marker = %q, want %q", marker, tc.wantMarker)
			}
			if strings.TrimSpace(body) != tc.wantBody {
				t.Fatalf("body = %q, want %q", body, tc.wantBody)
			}
		})
	}
}

func TestQueryRowWithoutMarkerFailsScan(t *testing.T) {
	runner := NewSQLRunner(nil, NopLogger())
	row := runner.QueryRow(context.Background(), "select 1")
	var v int
	if err := row.Scan(&v); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("Scan() error = %v, want ErrMissingMarker", err)
	}
}
