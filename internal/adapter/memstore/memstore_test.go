package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"muin/internal/domain"
)

func TestUpsertKeepsOneRowPerIdentifier(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	first := &domain.Entitlement{Identifier: "u", Type: domain.EntitlementFreeTrial, IsActive: true, EndDate: now.Add(time.Hour)}
	if err := s.Insert(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := &domain.Entitlement{Identifier: "u", Type: domain.EntitlementMonthly, IsActive: true, EndDate: now.Add(2 * time.Hour)}
	if err := s.Upsert(ctx, second); err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert changed id: %s -> %s", first.ID, second.ID)
	}
	n, _ := s.CountByIdentifier(ctx, "u")
	if n != 1 {
		t.Fatalf("count = %d", n)
	}
	got, err := s.FindActive(ctx, "u")
	if err != nil || got.Type != domain.EntitlementMonthly {
		t.Fatalf("FindActive = %+v, %v", got, err)
	}
}

func TestInsertRejectsExistingIdentifier(t *testing.T) {
	s := New()
	ctx := context.Background()
	first := &domain.Entitlement{Identifier: "u", Type: domain.EntitlementFreeTrial, IsActive: true}
	if err := s.Insert(ctx, first); err != nil {
		t.Fatal(err)
	}
	err := s.Insert(ctx, &domain.Entitlement{Identifier: "u", Type: domain.EntitlementFreeTrial, IsActive: true})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	got, _ := s.FindActive(ctx, "u")
	if got.ID != first.ID {
		t.Fatalf("row replaced: %s -> %s", first.ID, got.ID)
	}
}

func TestDeactivateExpiredLeavesRow(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()
	_ = s.Insert(ctx, &domain.Entitlement{Identifier: "u", IsActive: true, EndDate: now.Add(-time.Minute)})

	n, _ := s.DeactivateExpired(ctx, now)
	if n != 1 {
		t.Fatalf("deactivated %d", n)
	}
	if _, err := s.FindActive(ctx, "u"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if c, _ := s.CountByIdentifier(ctx, "u"); c != 1 {
		t.Fatalf("row should be kept, count=%d", c)
	}
}

func TestQuizAnswerOncePerDay(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := &domain.QuizAnswer{Identifier: "u", Date: "2025-01-01"}
	if err := s.InsertAnswer(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertAnswer(ctx, &domain.QuizAnswer{Identifier: "u", Date: "2025-01-01"}); !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Fatalf("err = %v", err)
	}
}

func TestListByIdentifierNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_ = s.InsertQuestion(ctx, &domain.QuestionRecord{Identifier: "u", Question: "q", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	_ = s.InsertQuestion(ctx, &domain.QuestionRecord{Identifier: "other", CreatedAt: base})

	out, _ := s.ListByIdentifier(ctx, "u", 2)
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if !out[0].CreatedAt.After(out[1].CreatedAt) {
		t.Fatal("expected newest first")
	}
}
