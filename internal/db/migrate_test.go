package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/muin?sslmode=disable": "pgx5://u:p@localhost:5432/muin?sslmode=disable",
		"postgresql://localhost/muin":                        "pgx5://localhost/muin",
		"pgx5://already":                                     "pgx5://already",
	}
	for in, want := range tests {
		if got := MigrateURL(in); got != want {
			t.Fatalf("MigrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %q", name)
		}
	}
	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
}

func TestInitialMigrationCreatesCoreTables(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	sql := string(raw)
	for _, table := range []string{"subscriptions", "questions", "stats", "app_settings", "favorites", "daily_quiz_answers"} {
		if !strings.Contains(sql, "create table if not exists "+table+" (") {
			t.Fatalf("init migration does not create %s", table)
		}
	}
	if !strings.Contains(sql, "identifier        text not null unique") {
		t.Fatal("subscriptions.identifier must be unique to keep one row per identifier")
	}
}
