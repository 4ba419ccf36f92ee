package repo

import (
	"context"

	"muin/internal/domain"
	"muin/internal/infra"
	"muin/internal/sqlinline"
)

// EngagementRepositoryPG stores answer feedback and favorites.
type EngagementRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewEngagementRepository(sql infra.SQLExecutor) *EngagementRepositoryPG {
	return &EngagementRepositoryPG{sql: sql}
}

func (r *EngagementRepositoryPG) InsertFeedback(ctx context.Context, f *domain.Feedback) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertFeedback, f.QuestionID, f.Identifier, f.IsHelpful, f.Comment, f.AnswerExcerpt)
	return row.Scan(&f.ID, &f.CreatedAt)
}

// AddFavorite is idempotent per (identifier, question).
func (r *EngagementRepositoryPG) AddFavorite(ctx context.Context, f *domain.Favorite) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertFavorite, f.Identifier, f.QuestionID)
	return row.Scan(&f.ID, &f.CreatedAt)
}

func (r *EngagementRepositoryPG) ListFavorites(ctx context.Context, identifier string) ([]domain.Favorite, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListFavorites, identifier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Favorite
	for rows.Next() {
		var (
			f     domain.Favorite
			q     domain.QuestionRecord
			style string
		)
		if err := rows.Scan(&f.ID, &f.Identifier, &f.QuestionID, &f.CreatedAt, &q.Question, &q.Answer, &q.SourceTag, &style, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.ID = f.QuestionID
		q.Identifier = f.Identifier
		q.Style = domain.ResponseStyle(style)
		f.Question = &q
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *EngagementRepositoryPG) RemoveFavorite(ctx context.Context, identifier, questionID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteFavorite, identifier, questionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EngagementRepositoryPG) CountFavorites(ctx context.Context) (int, error) {
	var n int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountFavorites).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
