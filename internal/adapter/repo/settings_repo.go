package repo

import (
	"context"

	"muin/internal/domain"
	"muin/internal/infra"
	"muin/internal/sqlinline"
)

// SettingsRepositoryPG implements domain.SettingsRepository.
type SettingsRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewSettingsRepository(sql infra.SQLExecutor) *SettingsRepositoryPG {
	return &SettingsRepositoryPG{sql: sql}
}

func (r *SettingsRepositoryPG) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	var s domain.Setting
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectSetting, key).Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepositoryPG) PutSetting(ctx context.Context, key, value string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertSetting, key, value)
	return err
}
