// Package qa runs the ask pipeline: entitlement, quota, prompt, provider,
// persistence.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"muin/internal/domain"
	"muin/internal/metrics"
	"muin/internal/prompt"
	"muin/internal/providers/answer"
	"muin/internal/quota"
)

// Entitlements is the part of the lifecycle manager the service needs.
type Entitlements interface {
	Ensure(ctx context.Context, identifier string) *domain.Entitlement
}

// Quota is the part of the tracker the service needs.
type Quota interface {
	CheckAndDecrement(ctx context.Context, identifier string, ent *domain.Entitlement) (quota.Decision, error)
}

// Recorder persists answered questions.
type Recorder interface {
	Record(ctx context.Context, identifier, question, answer, sourceTag string, style domain.ResponseStyle) string
}

// AskInput is one question from one identifier.
type AskInput struct {
	Identifier string
	Question   string
	Style      string
}

// AskResult is returned to the caller on success.
type AskResult struct {
	QuestionID  string
	Answer      string
	SourceTag   string
	Style       domain.ResponseStyle
	Language    language.Tag
	Quota       quota.Decision
	Entitlement *domain.Entitlement
}

// Service coordinates one question at a time per identifier.
type Service struct {
	entitlements Entitlements
	quota        Quota
	composer     *prompt.Composer
	proxy        answer.Proxy
	recorder     Recorder
	questions    domain.QuestionRepository
	metrics      metrics.Recorder
	logger       zerolog.Logger
	maxRunes     int

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Deps groups the collaborators of Service.
type Deps struct {
	Entitlements Entitlements
	Quota        Quota
	Composer     *prompt.Composer
	Proxy        answer.Proxy
	Recorder     Recorder
	Questions    domain.QuestionRepository
	Metrics      metrics.Recorder
	Logger       zerolog.Logger
	MaxRunes     int
}

func NewService(d Deps) *Service {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Composer == nil {
		d.Composer = prompt.NewComposer()
	}
	if d.MaxRunes <= 0 {
		d.MaxRunes = 2000
	}
	return &Service{
		entitlements: d.Entitlements,
		quota:        d.Quota,
		composer:     d.Composer,
		proxy:        d.Proxy,
		recorder:     d.Recorder,
		questions:    d.Questions,
		metrics:      d.Metrics,
		logger:       d.Logger,
		maxRunes:     d.MaxRunes,
		inFlight:     map[string]struct{}{},
	}
}

// Ask answers one question. A second call for the same identifier while the
// first is pending fails with ErrRequestInFlight. With ErrQuotaExceeded the
// result is still returned so callers can show the quota state.
func (s *Service) Ask(ctx context.Context, in AskInput) (*AskResult, error) {
	question := prompt.CleanQuestion(in.Question)
	if question == "" || utf8.RuneCountInString(question) > s.maxRunes {
		s.metrics.RecordQuestion(metrics.OutcomeInvalid)
		return nil, domain.ErrInvalidQuestion
	}
	style, err := domain.ParseStyle(strings.TrimSpace(in.Style))
	if err != nil {
		style = domain.DefaultStyle
	}
	if in.Identifier == "" {
		return nil, domain.ErrInvalidIdentity
	}

	if !s.acquire(in.Identifier) {
		s.metrics.RecordQuestion(metrics.OutcomeInFlight)
		return nil, domain.ErrRequestInFlight
	}
	defer s.release(in.Identifier)

	ent := s.entitlements.Ensure(ctx, in.Identifier)

	decision, err := s.quota.CheckAndDecrement(ctx, in.Identifier, ent)
	if err != nil {
		return nil, fmt.Errorf("check quota: %w", err)
	}
	if !decision.Allowed {
		s.metrics.RecordQuestion(metrics.OutcomeQuotaExceeded)
		return &AskResult{Quota: decision, Entitlement: ent, Style: style}, domain.ErrQuotaExceeded
	}

	lang := prompt.DetectLanguage(question)
	p := answer.Prompt{
		System: prompt.SystemPrompt(lang),
		User:   s.composer.Compose(question, style, ent, lang),
	}

	started := time.Now()
	ans, err := s.proxy.Ask(ctx, p, ent)
	s.metrics.RecordProviderLatency(s.proxy.Name(), time.Since(started))
	if err != nil {
		s.metrics.RecordQuestion(metrics.OutcomeProviderError)
		ev := s.logger.Error().Err(err).Str("identifier", in.Identifier).Str("provider", s.proxy.Name())
		var pe *answer.ProviderError
		if errors.As(err, &pe) {
			ev = ev.Int("status", pe.StatusCode).Str("body", pe.Body)
		}
		ev.Msg("provider call failed")
		return nil, fmt.Errorf("ask provider: %w", domain.ErrProviderFailure)
	}

	sourceTag := ans.SourceTag
	if prompt.IsAboutQuestion(question) {
		sourceTag = ""
	}
	id := s.recorder.Record(ctx, in.Identifier, question, ans.Text, sourceTag, style)
	s.metrics.RecordQuestion(metrics.OutcomeAnswered)

	return &AskResult{
		QuestionID:  id,
		Answer:      ans.Text,
		SourceTag:   sourceTag,
		Style:       style,
		Language:    lang,
		Quota:       decision,
		Entitlement: ent,
	}, nil
}

// History returns the caller's most recent questions.
func (s *Service) History(ctx context.Context, identifier string, limit int) ([]domain.QuestionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.questions.ListByIdentifier(ctx, identifier, limit)
}

func (s *Service) acquire(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[identifier]; busy {
		return false
	}
	s.inFlight[identifier] = struct{}{}
	return true
}

func (s *Service) release(identifier string) {
	s.mu.Lock()
	delete(s.inFlight, identifier)
	s.mu.Unlock()
}
