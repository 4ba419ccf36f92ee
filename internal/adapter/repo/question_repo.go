package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"muin/internal/domain"
	"muin/internal/infra"
	"muin/internal/sqlinline"
)

// QuestionRepositoryPG implements domain.QuestionRepository.
type QuestionRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewQuestionRepository(sql infra.SQLExecutor) *QuestionRepositoryPG {
	return &QuestionRepositoryPG{sql: sql}
}

func (r *QuestionRepositoryPG) InsertQuestion(ctx context.Context, q *domain.QuestionRecord) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertQuestion,
		q.Identifier,
		q.Question,
		q.Answer,
		q.SourceTag,
		string(q.Style),
		q.CreatedAt,
	)
	return row.Scan(&q.ID)
}

func (r *QuestionRepositoryPG) GetQuestion(ctx context.Context, id string) (*domain.QuestionRecord, error) {
	q, err := scanQuestion(r.sql.QueryRow(ctx, sqlinline.QSelectQuestion, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepositoryPG) ListByIdentifier(ctx context.Context, identifier string, limit int) ([]domain.QuestionRecord, error) {
	return r.list(ctx, sqlinline.QListQuestionsByIdentifier, identifier, limit)
}

func (r *QuestionRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.QuestionRecord, error) {
	return r.list(ctx, sqlinline.QListRecentQuestions, limit)
}

func (r *QuestionRepositoryPG) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountQuestions).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *QuestionRepositoryPG) DeleteQuestion(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteQuestion, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementEngagement bumps helpful_count or report_count.
func (r *QuestionRepositoryPG) IncrementEngagement(ctx context.Context, id string, helpful bool) error {
	query := sqlinline.QIncrementQuestionReport
	if helpful {
		query = sqlinline.QIncrementQuestionHelpful
	}
	tag, err := r.sql.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *QuestionRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.QuestionRecord, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuestionRecord
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func scanQuestion(row pgx.Row) (*domain.QuestionRecord, error) {
	var (
		q     domain.QuestionRecord
		style string
	)
	if err := row.Scan(&q.ID, &q.Identifier, &q.Question, &q.Answer, &q.SourceTag, &style, &q.HelpfulCount, &q.ReportCount, &q.CreatedAt); err != nil {
		return nil, err
	}
	q.Style = domain.ResponseStyle(style)
	return &q, nil
}
