package handlers

import (
	"time"

	"muin/internal/domain"
	"muin/internal/quota"
)

type subscriptionDTO struct {
	Type          string    `json:"type"`
	Active        bool      `json:"active"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	DaysRemaining int       `json:"daysRemaining"`
	Features      []string  `json:"features"`
}

func toSubscription(e *domain.Entitlement, now time.Time) *subscriptionDTO {
	if e == nil {
		return nil
	}
	out := &subscriptionDTO{
		Type:      string(e.Type),
		Active:    e.ActiveAt(now),
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Features:  e.EnabledFeatures.Keys(),
	}
	if out.Active {
		out.DaysRemaining = int(e.EndDate.Sub(now).Hours()/24) + 1
	}
	return out
}

type questionDTO struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	SourceTag    string    `json:"sourceTag,omitempty"`
	Style        string    `json:"style"`
	HelpfulCount int       `json:"helpfulCount"`
	ReportCount  int       `json:"reportCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toQuestion(q domain.QuestionRecord) questionDTO {
	return questionDTO{
		ID:           q.ID,
		Question:     q.Question,
		Answer:       q.Answer,
		SourceTag:    q.SourceTag,
		Style:        string(q.Style),
		HelpfulCount: q.HelpfulCount,
		ReportCount:  q.ReportCount,
		CreatedAt:    q.CreatedAt,
	}
}

func toQuestions(in []domain.QuestionRecord) []questionDTO {
	out := make([]questionDTO, 0, len(in))
	for _, q := range in {
		out = append(out, toQuestion(q))
	}
	return out
}

type favoriteDTO struct {
	QuestionID string       `json:"questionId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Question   *questionDTO `json:"question,omitempty"`
}

func toFavorite(f domain.Favorite) favoriteDTO {
	out := favoriteDTO{QuestionID: f.QuestionID, CreatedAt: f.CreatedAt}
	if f.Question != nil {
		q := toQuestion(*f.Question)
		out.Question = &q
	}
	return out
}

type quotaDTO struct {
	Unlimited bool `json:"unlimited"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

func toQuota(d quota.Decision) quotaDTO {
	return quotaDTO{Unlimited: d.Unlimited, Remaining: d.Remaining, Limit: d.Limit}
}

type quizQuestionDTO struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	// Revealed only once the caller has answered.
	CorrectAnswer *int   `json:"correctAnswer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
	Source        string `json:"source,omitempty"`
}

func toQuizQuestion(q *domain.QuizQuestion, reveal bool) quizQuestionDTO {
	out := quizQuestionDTO{ID: q.ID, Date: q.Date, Question: q.Question, Options: q.Options}
	if reveal {
		correct := q.CorrectAnswer
		out.CorrectAnswer = &correct
		out.Explanation = q.Explanation
		out.Source = q.Source
	}
	return out
}

type quizAnswerDTO struct {
	SelectedAnswer int       `json:"selectedAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toQuizAnswer(a *domain.QuizAnswer) *quizAnswerDTO {
	if a == nil {
		return nil
	}
	return &quizAnswerDTO{SelectedAnswer: a.SelectedAnswer, IsCorrect: a.IsCorrect, CreatedAt: a.CreatedAt}
}
