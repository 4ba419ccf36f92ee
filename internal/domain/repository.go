package domain

import (
	"context"
	"time"
)

// EntitlementRepository is the Entitlement Store.
type EntitlementRepository interface {
	// FindActive returns the active row for identifier or ErrNotFound.
	FindActive(ctx context.Context, identifier string) (*Entitlement, error)
	// CountByIdentifier counts rows (active or not) for identifier.
	CountByIdentifier(ctx context.Context, identifier string) (int, error)
	// Insert creates a new row and fills ID and timestamps.
	Insert(ctx context.Context, e *Entitlement) error
	// Upsert inserts or replaces the row keyed on identifier.
	Upsert(ctx context.Context, e *Entitlement) error
	// Deactivate flips is_active to false without deleting the row.
	Deactivate(ctx context.Context, id string, at time.Time) error
	// DeactivateExpired deactivates every active row whose end date is before now.
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)
	// RecordActivation writes the audit row for an activation.
	RecordActivation(ctx context.Context, a *Activation) error
}

// FeatureRepository reads the premium feature catalogue.
type FeatureRepository interface {
	ListFeatures(ctx context.Context) ([]Feature, error)
}

// QuestionRepository persists question records.
type QuestionRepository interface {
	InsertQuestion(ctx context.Context, q *QuestionRecord) error
	GetQuestion(ctx context.Context, id string) (*QuestionRecord, error)
	ListByIdentifier(ctx context.Context, identifier string, limit int) ([]QuestionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]QuestionRecord, error)
	CountQuestions(ctx context.Context) (int, error)
	DeleteQuestion(ctx context.Context, id string) error
	IncrementEngagement(ctx context.Context, id string, helpful bool) error
}

// StatsRepository maintains DailyStats.
type StatsRepository interface {
	// IncrementDaily adds one question for date; newUser also bumps daily users.
	IncrementDaily(ctx context.Context, date string, newUser bool) error
	// MarkSeen records identifier for date and reports whether it was the first sighting.
	MarkSeen(ctx context.Context, date, identifier string) (bool, error)
	Latest(ctx context.Context, limit int) ([]DailyStats, error)
}

// SettingsRepository reads and writes app settings.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (*Setting, error)
	PutSetting(ctx context.Context, key, value string) error
}

// EngagementRepository stores feedback and favorites.
type EngagementRepository interface {
	InsertFeedback(ctx context.Context, f *Feedback) error
	AddFavorite(ctx context.Context, f *Favorite) error
	ListFavorites(ctx context.Context, identifier string) ([]Favorite, error)
	RemoveFavorite(ctx context.Context, identifier, questionID string) error
	CountFavorites(ctx context.Context) (int, error)
}

// QuizRepository stores the daily quiz.
type QuizRepository interface {
	QuestionForDate(ctx context.Context, date string) (*QuizQuestion, error)
	AnswerFor(ctx context.Context, identifier, date string) (*QuizAnswer, error)
	// InsertAnswer returns ErrAlreadyAnswered when (identifier, date) exists.
	InsertAnswer(ctx context.Context, a *QuizAnswer) error
}
