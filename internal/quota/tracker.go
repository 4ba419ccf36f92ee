// Package quota enforces the free tier daily question limit.
package quota

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"muin/internal/domain"
)

// Decision is the outcome of a quota check. Remaining is -1 when Unlimited.
type Decision struct {
	Allowed   bool `json:"allowed"`
	Unlimited bool `json:"unlimited"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

// Tracker counts free questions per identifier and local day.
//
// The check is a plain read-modify-write: two concurrent requests for the
// same identifier can both read the same remaining count and the later
// write wins.
type Tracker struct {
	store        Store
	settings     domain.SettingsRepository
	defaultLimit int
	loc          *time.Location
	logger       zerolog.Logger
	now          func() time.Time
}

func NewTracker(store Store, settings domain.SettingsRepository, defaultLimit int, loc *time.Location, logger zerolog.Logger) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		store:        store,
		settings:     settings,
		defaultLimit: defaultLimit,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// SetClock overrides the time source.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// CheckAndDecrement consumes one free question unless ent is active.
func (t *Tracker) CheckAndDecrement(ctx context.Context, identifier string, ent *domain.Entitlement) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	now := t.now()
	if ent.ActiveAt(now) {
		return Decision{Allowed: true, Unlimited: true, Remaining: -1}, nil
	}

	limit := t.Limit(ctx)
	state := t.current(ctx, identifier, now, limit)
	if state.Remaining <= 0 {
		return Decision{Allowed: false, Remaining: 0, Limit: limit}, nil
	}

	state.Remaining--
	if err := t.store.Save(ctx, identifier, state); err != nil {
		t.logger.Warn().Err(err).Str("identifier", identifier).Msg("quota save failed")
	}
	return Decision{Allowed: true, Remaining: state.Remaining, Limit: limit}, nil
}

// Peek reports the caller's quota without consuming any.
func (t *Tracker) Peek(ctx context.Context, identifier string, ent *domain.Entitlement) Decision {
	now := t.now()
	if ent.ActiveAt(now) {
		return Decision{Allowed: true, Unlimited: true, Remaining: -1}
	}
	limit := t.Limit(ctx)
	state := t.current(ctx, identifier, now, limit)
	return Decision{Allowed: state.Remaining > 0, Remaining: state.Remaining, Limit: limit}
}

// Limit reads daily_question_limit, falling back to the configured default.
func (t *Tracker) Limit(ctx context.Context) int {
	if t.settings == nil {
		return t.defaultLimit
	}
	setting, err := t.settings.GetSetting(ctx, domain.SettingDailyQuestionLimit)
	if err != nil {
		return t.defaultLimit
	}
	n, err := strconv.Atoi(strings.TrimSpace(setting.Value))
	if err != nil || n < 0 {
		t.logger.Warn().Str("value", setting.Value).Msg("invalid daily_question_limit setting")
		return t.defaultLimit
	}
	return n
}

func (t *Tracker) current(ctx context.Context, identifier string, now time.Time, limit int) domain.QuotaState {
	today := domain.DayKey(now, t.loc)
	state, err := t.store.Load(ctx, identifier)
	if err != nil {
		t.logger.Warn().Err(err).Str("identifier", identifier).Msg("quota load failed; starting fresh")
	}
	if state == nil || state.Date != today {
		return domain.QuotaState{Date: today, Remaining: limit}
	}
	if state.Remaining < 0 {
		state.Remaining = 0
	}
	return *state
}
