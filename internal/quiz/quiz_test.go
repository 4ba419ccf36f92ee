package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"muin/internal/adapter/memstore"
	"muin/internal/domain"
)

func TestTodayFallsBackDeterministically(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, time.UTC)

	tests := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), "q1"},
		{time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), "q2"},
		{time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC), "q3"},
		{time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC), "q1"},
	}
	for _, tt := range tests {
		day := tt.day
		svc.SetClock(func() time.Time { return day })
		today, err := svc.Today(context.Background(), "u")
		if err != nil {
			t.Fatal(err)
		}
		if today.Question.ID != tt.want {
			t.Errorf("%s: question %s, want %s", day.Format("2006-01-02"), today.Question.ID, tt.want)
		}
		if today.Question.Date != day.Format("2006-01-02") {
			t.Errorf("date = %s", today.Question.Date)
		}
	}
}

func TestTodayPrefersStoredQuestion(t *testing.T) {
	store := memstore.New()
	store.PutQuiz(domain.QuizQuestion{Date: "2025-02-01", Question: "سؤال مخزن", Options: []string{"أ", "ب"}, CorrectAnswer: 0})
	svc := NewService(store, time.UTC)
	svc.SetClock(func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) })

	today, err := svc.Today(context.Background(), "u")
	if err != nil {
		t.Fatal(err)
	}
	if today.Question.Question != "سؤال مخزن" || today.Answer != nil {
		t.Fatalf("today = %+v", today)
	}
}

func TestSubmitOncePerDay(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, time.UTC)
	svc.SetClock(func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) })
	ctx := context.Background()

	ans, q, err := svc.Submit(ctx, "u", 1)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !ans.IsCorrect || q.ID != "q1" {
		t.Fatalf("answer = %+v question = %s", ans, q.ID)
	}
	if _, _, err := svc.Submit(ctx, "u", 0); !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Fatalf("second submit err = %v", err)
	}

	today, _ := svc.Today(ctx, "u")
	if today.Answer == nil || today.Answer.SelectedAnswer != 1 {
		t.Fatalf("today answer = %+v", today.Answer)
	}
}

func TestSubmitRejectsOutOfRange(t *testing.T) {
	svc := NewService(memstore.New(), time.UTC)
	for _, sel := range []int{-1, 4, 99} {
		if _, _, err := svc.Submit(context.Background(), "u", sel); !errors.Is(err, domain.ErrInvalidAnswer) {
			t.Errorf("selected %d: err = %v", sel, err)
		}
	}
}
