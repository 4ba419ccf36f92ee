// Package quiz serves the daily multiple choice question.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"muin/internal/domain"
)

var builtin = []domain.QuizQuestion{
	{
		ID:            "q1",
		Question:      "كم عدد أركان الإسلام؟",
		Options:       []string{"أربعة", "خمسة", "ستة", "سبعة"},
		CorrectAnswer: 1,
		Explanation:   "أركان الإسلام خمسة: الشهادتان، الصلاة، الزكاة، الصوم، الحج",
		Source:        "حديث جبريل المشهور",
	},
	{
		ID:            "q2",
		Question:      "في أي سورة وردت آية الكرسي؟",
		Options:       []string{"الفاتحة", "البقرة", "آل عمران", "النساء"},
		CorrectAnswer: 1,
		Explanation:   "آية الكرسي هي الآية رقم 255 من سورة البقرة",
		Source:        "القرآن الكريم - سورة البقرة",
	},
	{
		ID:            "q3",
		Question:      "كم عدد الصلوات المفروضة في اليوم؟",
		Options:       []string{"ثلاث", "أربع", "خمس", "ست"},
		CorrectAnswer: 2,
		Explanation:   "الصلوات المفروضة خمس: الفجر، الظهر، العصر، المغرب، العشاء",
		Source:        "فرضت ليلة الإسراء والمعراج",
	},
}

// Today is the question of the day plus the caller's answer, if any.
type Today struct {
	Question *domain.QuizQuestion
	Answer   *domain.QuizAnswer
}

type Service struct {
	repo domain.QuizRepository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo domain.QuizRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the stored question for today or a built-in one picked by
// day of year.
func (s *Service) Today(ctx context.Context, identifier string) (*Today, error) {
	now := s.now().In(s.loc)
	date := domain.DayKey(now, s.loc)

	q, err := s.question(ctx, now, date)
	if err != nil {
		return nil, err
	}
	out := &Today{Question: q}

	if identifier != "" {
		ans, err := s.repo.AnswerFor(ctx, identifier, date)
		switch {
		case err == nil:
			out.Answer = ans
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("load quiz answer: %w", err)
		}
	}
	return out, nil
}

// Submit records identifier's answer for today. Only one answer per day.
func (s *Service) Submit(ctx context.Context, identifier string, selected int) (*domain.QuizAnswer, *domain.QuizQuestion, error) {
	now := s.now().In(s.loc)
	date := domain.DayKey(now, s.loc)

	q, err := s.question(ctx, now, date)
	if err != nil {
		return nil, nil, err
	}
	if selected < 0 || selected >= len(q.Options) {
		return nil, nil, domain.ErrInvalidAnswer
	}
	ans := &domain.QuizAnswer{
		Identifier:     identifier,
		QuestionID:     q.ID,
		SelectedAnswer: selected,
		IsCorrect:      selected == q.CorrectAnswer,
		Date:           date,
	}
	if err := s.repo.InsertAnswer(ctx, ans); err != nil {
		if errors.Is(err, domain.ErrAlreadyAnswered) {
			return nil, q, err
		}
		return nil, nil, fmt.Errorf("save quiz answer: %w", err)
	}
	return ans, q, nil
}

func (s *Service) question(ctx context.Context, now time.Time, date string) (*domain.QuizQuestion, error) {
	q, err := s.repo.QuestionForDate(ctx, date)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load quiz question: %w", err)
	}
	fallback := builtin[(now.YearDay()-1)%len(builtin)]
	fallback.Date = date
	return &fallback, nil
}
