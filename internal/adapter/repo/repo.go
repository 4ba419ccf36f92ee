// Package repo holds the PostgreSQL implementations of the domain
// repositories. Every query lives in sqlinline and runs through an
// infra.SQLExecutor.
package repo

import "muin/internal/domain"

var (
	_ domain.EntitlementRepository = (*EntitlementRepositoryPG)(nil)
	_ domain.FeatureRepository     = (*EntitlementRepositoryPG)(nil)
	_ domain.QuestionRepository    = (*QuestionRepositoryPG)(nil)
	_ domain.StatsRepository       = (*StatsRepositoryPG)(nil)
	_ domain.SettingsRepository    = (*SettingsRepositoryPG)(nil)
	_ domain.EngagementRepository  = (*EngagementRepositoryPG)(nil)
	_ domain.QuizRepository        = (*QuizRepositoryPG)(nil)
)
