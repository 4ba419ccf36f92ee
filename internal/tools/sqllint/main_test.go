package main

import (
	"strings"
	"testing"
)

const sample = "package q\n\n" +
	"const QGood = `--sql 0b7f3c1e-2a4d-4c55-9e61-7a0d2f4b8c11\nSELECT 1`\n\n" +
	"const QDup = `--sql 0b7f3c1e-2a4d-4c55-9e61-7a0d2f4b8c11\nSELECT 2`\n\n" +
	"const QBare = `SELECT id FROM questions`\n\n" +
	"const QBadMarker = `--sql not-a-uuid\nDELETE FROM questions`\n\n" +
	"const prose = \"Answer with care and select sources\"\n"

func TestLintFile(t *testing.T) {
	l := newLinter()
	if err := l.lintFile("q.go", sample); err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, v := range l.violations {
		got[v.name] = v.message
	}
	if len(got) != 3 {
		t.Fatalf("violations = %+v", l.violations)
	}
	if !strings.Contains(got["QDup"], "already used") {
		t.Errorf("QDup: %q", got["QDup"])
	}
	if !strings.Contains(got["QBare"], "missing") || !strings.Contains(got["QBadMarker"], "missing") {
		t.Errorf("violations = %+v", got)
	}
	if _, ok := got["prose"]; ok {
		t.Error("plain text flagged as SQL")
	}
}

func TestSQLStatementPattern(t *testing.T) {
	tests := map[string]bool{
		"SELECT * FROM t":               true,
		"\n  insert into t values (1)":  true,
		"WITH x AS (SELECT 1) SELECT *": true,
		"--sql abc\nSELECT 1":           true,
		"With the name of God":          false,
		"Please update your browser":    false,
		"selection of hadith":           false,
	}
	for in, want := range tests {
		if got := sqlStatementPattern.MatchString(in); got != want {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}
