// Package usage persists answered questions and the daily aggregate.
package usage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"muin/internal/domain"
	"muin/internal/metrics"
)

// Recorder writes QuestionRecords and DailyStats. Every failure is logged
// and swallowed; the caller already has the answer to show.
type Recorder struct {
	questions domain.QuestionRepository
	stats     domain.StatsRepository
	loc       *time.Location
	logger    zerolog.Logger
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewRecorder(questions domain.QuestionRepository, stats domain.StatsRepository, loc *time.Location, logger zerolog.Logger, rec metrics.Recorder) *Recorder {
	if loc == nil {
		loc = time.UTC
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Recorder{
		questions: questions,
		stats:     stats,
		loc:       loc,
		logger:    logger,
		metrics:   rec,
		now:       time.Now,
	}
}

// SetClock overrides the time source.
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Record stores the pair exactly as asked and answered, then bumps today's
// stats. It returns the new record id, or "" when the insert failed.
func (r *Recorder) Record(ctx context.Context, identifier, question, answer, sourceTag string, style domain.ResponseStyle) string {
	now := r.now()
	rec := &domain.QuestionRecord{
		Identifier: identifier,
		Question:   question,
		Answer:     answer,
		SourceTag:  sourceTag,
		Style:      style,
		CreatedAt:  now,
	}
	if err := r.questions.InsertQuestion(ctx, rec); err != nil {
		r.metrics.RecordPersistenceFailure()
		r.logger.Error().Err(err).Str("identifier", identifier).Msg("insert question failed")
		rec.ID = ""
	}

	day := domain.DayKey(now, r.loc)
	first, err := r.stats.MarkSeen(ctx, day, identifier)
	if err != nil {
		r.logger.Warn().Err(err).Str("date", day).Msg("mark daily user failed")
		first = false
	}
	if err := r.stats.IncrementDaily(ctx, day, first); err != nil {
		r.metrics.RecordPersistenceFailure()
		r.logger.Error().Err(err).Str("date", day).Msg("increment daily stats failed")
	}
	return rec.ID
}
