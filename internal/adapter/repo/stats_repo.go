package repo

import (
	"context"

	"muin/internal/domain"
	"muin/internal/infra"
	"muin/internal/sqlinline"
)

// StatsRepositoryPG implements domain.StatsRepository.
type StatsRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewStatsRepository(sql infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{sql: sql}
}

// IncrementDaily upserts today's row; daily users only grows for new visitors.
func (r *StatsRepositoryPG) IncrementDaily(ctx context.Context, date string, newUser bool) error {
	users := 0
	if newUser {
		users = 1
	}
	_, err := r.sql.Exec(ctx, sqlinline.QIncrementDailyStats, date, users)
	return err
}

// MarkSeen returns true when identifier had not been seen on date before.
func (r *StatsRepositoryPG) MarkSeen(ctx context.Context, date, identifier string) (bool, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QMarkDailyUserSeen, date, identifier)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StatsRepositoryPG) Latest(ctx context.Context, limit int) ([]domain.DailyStats, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QLatestDailyStats, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailyStats
	for rows.Next() {
		var s domain.DailyStats
		if err := rows.Scan(&s.Date, &s.TotalQuestions, &s.DailyUsers, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
