// Package engagement handles answer feedback and favorites.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"muin/internal/domain"
)

const (
	maxExcerptRunes = 1000
	maxCommentRunes = 1000
)

type Service struct {
	questions domain.QuestionRepository
	repo      domain.EngagementRepository
	logger    zerolog.Logger
	policy    *bluemonday.Policy
}

func NewService(questions domain.QuestionRepository, repo domain.EngagementRepository, logger zerolog.Logger) *Service {
	return &Service{questions: questions, repo: repo, logger: logger, policy: bluemonday.StrictPolicy()}
}

// CleanComment strips markup from a feedback comment. Comments are shown
// on the admin console as plain text.
func (s *Service) CleanComment(comment string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(comment)))
}

// SubmitFeedback stores a vote with an excerpt of the answer and bumps the
// question's helpful or report counter.
func (s *Service) SubmitFeedback(ctx context.Context, questionID, identifier string, helpful bool, comment string) (*domain.Feedback, error) {
	q, err := s.question(ctx, questionID)
	if err != nil {
		return nil, err
	}
	fb := &domain.Feedback{
		QuestionID:    q.ID,
		Identifier:    identifier,
		IsHelpful:     helpful,
		Comment:       truncateRunes(s.CleanComment(comment), maxCommentRunes),
		AnswerExcerpt: truncateRunes(q.Answer, maxExcerptRunes),
	}
	if err := s.repo.InsertFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	if err := s.questions.IncrementEngagement(ctx, q.ID, helpful); err != nil {
		s.logger.Warn().Err(err).Str("question_id", q.ID).Msg("increment engagement counter failed")
	}
	return fb, nil
}

// AddFavorite saves a question for identifier. Saving twice is a no-op.
func (s *Service) AddFavorite(ctx context.Context, identifier, questionID string) (*domain.Favorite, error) {
	q, err := s.question(ctx, questionID)
	if err != nil {
		return nil, err
	}
	fav := &domain.Favorite{Identifier: identifier, QuestionID: q.ID, Question: q}
	if err := s.repo.AddFavorite(ctx, fav); err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return fav, nil
}

func (s *Service) ListFavorites(ctx context.Context, identifier string) ([]domain.Favorite, error) {
	return s.repo.ListFavorites(ctx, identifier)
}

func (s *Service) RemoveFavorite(ctx context.Context, identifier, questionID string) error {
	if _, err := uuid.Parse(questionID); err != nil {
		return domain.ErrNotFound
	}
	return s.repo.RemoveFavorite(ctx, identifier, questionID)
}

func (s *Service) question(ctx context.Context, id string) (*domain.QuestionRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
