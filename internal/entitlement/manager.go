// Package entitlement owns the free trial and paid subscription lifecycle.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"muin/internal/domain"
)

// PremiumFeatures are enabled for every trial and paid activation when the
// catalogue cannot be read.
var PremiumFeatures = []string{
	"unlimited_questions",
	"detailed_answers",
	"scholarly_opinions",
	"source_citations",
	"voice_search",
	"daily_quiz",
	"favorites_sync",
	"situational_guidance",
}

// Manager implements Ensure, Activate and SweepExpired.
type Manager struct {
	repo      domain.EntitlementRepository
	features  domain.FeatureRepository
	trialDays int
	paidDays  int
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithFeatureCatalogue reads the premium feature keys from repo.
func WithFeatureCatalogue(repo domain.FeatureRepository) Option {
	return func(m *Manager) { m.features = repo }
}

func NewManager(repo domain.EntitlementRepository, trialDays, paidDays int, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		repo:      repo,
		trialDays: trialDays,
		paidDays:  paidDays,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure returns the caller's entitlement, creating a trial on first sight
// and deactivating an expired row. Store failures never reach the caller:
// the result is then an inactive entitlement, which means free tier.
func (m *Manager) Ensure(ctx context.Context, identifier string) *domain.Entitlement {
	now := m.now()

	current, err := m.repo.FindActive(ctx, identifier)
	switch {
	case err == nil:
		if current.Expired(now) {
			if err := m.repo.Deactivate(ctx, current.ID, now); err != nil {
				m.logger.Warn().Err(err).Str("identifier", identifier).Msg("deactivate expired entitlement failed")
			}
			current.IsActive = false
			current.UpdatedAt = now
		}
		return current
	case !errors.Is(err, domain.ErrNotFound):
		return m.failOpen(identifier, err)
	}

	// A row that exists but is inactive means the trial (or a paid month)
	// was already used.
	count, err := m.repo.CountByIdentifier(ctx, identifier)
	if err != nil {
		return m.failOpen(identifier, err)
	}
	if count > 0 {
		return &domain.Entitlement{Identifier: identifier, IsActive: false}
	}

	trial := &domain.Entitlement{
		Identifier:      identifier,
		Type:            domain.EntitlementFreeTrial,
		IsActive:        true,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, m.trialDays),
		EnabledFeatures: m.premiumSet(ctx),
		ActivatedBy:     domain.ActorFreeTrialSystem,
		Notes:           "automatic free trial",
	}
	if err := m.repo.Insert(ctx, trial); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return m.existing(ctx, identifier)
		}
		return m.failOpen(identifier, err)
	}
	m.logger.Info().Str("identifier", identifier).Time("ends", trial.EndDate).Msg("free trial started")
	return trial
}

// existing reloads the row a concurrent request created between the count
// and the insert.
func (m *Manager) existing(ctx context.Context, identifier string) *domain.Entitlement {
	current, err := m.repo.FindActive(ctx, identifier)
	switch {
	case err == nil:
		return current
	case errors.Is(err, domain.ErrNotFound):
		return &domain.Entitlement{Identifier: identifier, IsActive: false}
	default:
		return m.failOpen(identifier, err)
	}
}

// Activate grants a paid month to identifier on behalf of actor.
func (m *Manager) Activate(ctx context.Context, identifier, actor, notes string) (*domain.Entitlement, error) {
	if identifier == "" {
		return nil, domain.ErrInvalidIdentity
	}
	if actor == "" {
		return nil, domain.ErrUnauthorized
	}
	now := m.now()
	features := m.premiumSet(ctx)
	paid := &domain.Entitlement{
		Identifier:      identifier,
		Type:            domain.EntitlementMonthly,
		IsActive:        true,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, m.paidDays),
		EnabledFeatures: features,
		ActivatedBy:     actor,
		LastActivated:   &now,
		Notes:           notes,
	}
	if err := m.repo.Upsert(ctx, paid); err != nil {
		return nil, fmt.Errorf("activate subscription: %w", err)
	}

	audit := &domain.Activation{
		Identifier:    identifier,
		EntitlementID: paid.ID,
		Features:      features,
		ActivatedBy:   actor,
		Notes:         notes,
		ActivatedAt:   now,
	}
	if err := m.repo.RecordActivation(ctx, audit); err != nil {
		m.logger.Error().Err(err).Str("identifier", identifier).Msg("record activation audit failed")
	}
	m.logger.Info().Str("identifier", identifier).Str("actor", actor).Time("ends", paid.EndDate).Msg("subscription activated")
	return paid, nil
}

// SweepExpired deactivates every entitlement whose end date has passed.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	n, err := m.repo.DeactivateExpired(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired entitlements: %w", err)
	}
	return n, nil
}

func (m *Manager) failOpen(identifier string, err error) *domain.Entitlement {
	m.logger.Warn().Err(err).Str("identifier", identifier).Msg("entitlement lookup failed; serving free tier")
	return &domain.Entitlement{Identifier: identifier, IsActive: false}
}

func (m *Manager) premiumSet(ctx context.Context) domain.FeatureSet {
	if m.features != nil {
		catalogue, err := m.features.ListFeatures(ctx)
		if err == nil && len(catalogue) > 0 {
			set := domain.FeatureSet{}
			for _, f := range catalogue {
				if f.IsPremium {
					set[f.Key] = true
				}
			}
			if len(set) > 0 {
				return set
			}
		} else if err != nil {
			m.logger.Debug().Err(err).Msg("feature catalogue unavailable")
		}
	}
	return domain.NewFeatureSet(PremiumFeatures...)
}
