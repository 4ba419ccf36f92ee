package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"muin/internal/domain"
	"muin/internal/infra"
	"muin/internal/sqlinline"
)

// QuizRepositoryPG implements domain.QuizRepository.
type QuizRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewQuizRepository(sql infra.SQLExecutor) *QuizRepositoryPG {
	return &QuizRepositoryPG{sql: sql}
}

func (r *QuizRepositoryPG) QuestionForDate(ctx context.Context, date string) (*domain.QuizQuestion, error) {
	var (
		q       domain.QuizQuestion
		options []byte
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectQuizQuestionForDate, date).
		Scan(&q.ID, &q.Date, &q.Question, &options, &q.CorrectAnswer, &q.Explanation, &q.Source)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("decode quiz options: %w", err)
	}
	return &q, nil
}

func (r *QuizRepositoryPG) AnswerFor(ctx context.Context, identifier, date string) (*domain.QuizAnswer, error) {
	var a domain.QuizAnswer
	err := r.sql.QueryRow(ctx, sqlinline.QSelectQuizAnswer, identifier, date).
		Scan(&a.ID, &a.Identifier, &a.QuestionID, &a.SelectedAnswer, &a.IsCorrect, &a.Date, &a.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// InsertAnswer relies on the (identifier, date) unique key; a conflict
// returns no row.
func (r *QuizRepositoryPG) InsertAnswer(ctx context.Context, a *domain.QuizAnswer) error {
	err := r.sql.QueryRow(ctx, sqlinline.QInsertQuizAnswer, a.Identifier, a.QuestionID, a.SelectedAnswer, a.IsCorrect, a.Date).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrAlreadyAnswered
		}
		return err
	}
	return nil
}
