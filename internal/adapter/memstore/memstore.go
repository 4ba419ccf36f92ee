// Package memstore keeps every repository in process memory. It backs the
// service tests and local runs without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"muin/internal/domain"
)

// Store implements all domain repositories over maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	seq          int
	order        map[string]int
	entitlements map[string]*domain.Entitlement // keyed by identifier
	activations  []domain.Activation
	features     []domain.Feature
	questions    map[string]*domain.QuestionRecord
	stats        map[string]*domain.DailyStats
	seen         map[string]map[string]bool
	settings     map[string]domain.Setting
	feedback     []domain.Feedback
	favorites    []domain.Favorite
	quiz         map[string]domain.QuizQuestion
	answers      map[string]domain.QuizAnswer

	// Now stamps created rows. Defaults to time.Now.
	Now func() time.Time
	// FailEntitlements makes every entitlement call fail with the given error.
	FailEntitlements error
}

var (
	_ domain.EntitlementRepository = (*Store)(nil)
	_ domain.FeatureRepository     = (*Store)(nil)
	_ domain.QuestionRepository    = (*Store)(nil)
	_ domain.StatsRepository       = (*Store)(nil)
	_ domain.SettingsRepository    = (*Store)(nil)
	_ domain.EngagementRepository  = (*Store)(nil)
	_ domain.QuizRepository        = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		order:        map[string]int{},
		entitlements: map[string]*domain.Entitlement{},
		questions:    map[string]*domain.QuestionRecord{},
		stats:        map[string]*domain.DailyStats{},
		seen:         map[string]map[string]bool{},
		settings:     map[string]domain.Setting{},
		quiz:         map[string]domain.QuizQuestion{},
		answers:      map[string]domain.QuizAnswer{},
		Now:          time.Now,
	}
}

// nextID returns a fresh uuid and remembers its creation order.
func (s *Store) nextID() string {
	s.seq++
	id := uuid.NewString()
	s.order[id] = s.seq
	return id
}

// Entitlements

func (s *Store) FindActive(_ context.Context, identifier string) (*domain.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailEntitlements != nil {
		return nil, s.FailEntitlements
	}
	e, ok := s.entitlements[identifier]
	if !ok || !e.IsActive {
		return nil, domain.ErrNotFound
	}
	cp := *e
	cp.EnabledFeatures = copyFeatures(e.EnabledFeatures)
	return &cp, nil
}

func (s *Store) CountByIdentifier(_ context.Context, identifier string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailEntitlements != nil {
		return 0, s.FailEntitlements
	}
	if _, ok := s.entitlements[identifier]; ok {
		return 1, nil
	}
	return 0, nil
}

func (s *Store) Insert(_ context.Context, e *domain.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailEntitlements != nil {
		return s.FailEntitlements
	}
	if _, ok := s.entitlements[e.Identifier]; ok {
		return domain.ErrAlreadyExists
	}
	s.putEntitlement(e)
	return nil
}

func (s *Store) Upsert(_ context.Context, e *domain.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailEntitlements != nil {
		return s.FailEntitlements
	}
	s.putEntitlement(e)
	return nil
}

func (s *Store) putEntitlement(e *domain.Entitlement) {
	now := s.Now()
	if prev, ok := s.entitlements[e.Identifier]; ok {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	} else {
		e.ID = s.nextID()
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	cp := *e
	cp.EnabledFeatures = copyFeatures(e.EnabledFeatures)
	s.entitlements[e.Identifier] = &cp
}

func (s *Store) Deactivate(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entitlements {
		if e.ID == id {
			e.IsActive = false
			e.UpdatedAt = at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) DeactivateExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entitlements {
		if e.Expired(now) {
			e.IsActive = false
			e.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (s *Store) RecordActivation(_ context.Context, a *domain.Activation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID()
	s.activations = append(s.activations, *a)
	return nil
}

// Activations returns a copy of the audit rows.
func (s *Store) Activations() []domain.Activation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Activation(nil), s.activations...)
}

// Entitlement returns the stored row regardless of its active flag.
func (s *Store) Entitlement(identifier string) (domain.Entitlement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entitlements[identifier]
	if !ok {
		return domain.Entitlement{}, false
	}
	return *e, true
}

// SetFeatures replaces the feature catalogue.
func (s *Store) SetFeatures(features ...domain.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = append([]domain.Feature(nil), features...)
}

func (s *Store) ListFeatures(context.Context) ([]domain.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Feature(nil), s.features...), nil
}

// Questions

func (s *Store) InsertQuestion(_ context.Context, q *domain.QuestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextID()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.Now()
	}
	cp := *q
	s.questions[q.ID] = &cp
	return nil
}

func (s *Store) GetQuestion(_ context.Context, id string) (*domain.QuestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *Store) ListByIdentifier(_ context.Context, identifier string, limit int) ([]domain.QuestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.QuestionRecord
	for _, q := range s.questions {
		if q.Identifier == identifier {
			out = append(out, *q)
		}
	}
	return s.newestFirst(out, limit), nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]domain.QuestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.QuestionRecord, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, *q)
	}
	return s.newestFirst(out, limit), nil
}

func (s *Store) CountQuestions(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions), nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.questions, id)
	kept := s.favorites[:0]
	for _, f := range s.favorites {
		if f.QuestionID != id {
			kept = append(kept, f)
		}
	}
	s.favorites = kept
	return nil
}

func (s *Store) IncrementEngagement(_ context.Context, id string, helpful bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if helpful {
		q.HelpfulCount++
	} else {
		q.ReportCount++
	}
	return nil
}

// Stats

func (s *Store) IncrementDaily(_ context.Context, date string, newUser bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[date]
	if !ok {
		st = &domain.DailyStats{Date: date, CreatedAt: s.Now()}
		s.stats[date] = st
	}
	st.TotalQuestions++
	if newUser {
		st.DailyUsers++
	}
	return nil
}

func (s *Store) MarkSeen(_ context.Context, date, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.seen[date]
	if !ok {
		day = map[string]bool{}
		s.seen[date] = day
	}
	if day[identifier] {
		return false, nil
	}
	day[identifier] = true
	return true, nil
}

func (s *Store) Latest(_ context.Context, limit int) ([]domain.DailyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DailyStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Settings

func (s *Store) GetSetting(_ context.Context, key string) (*domain.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (s *Store) PutSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = domain.Setting{Key: key, Value: value, UpdatedAt: s.Now()}
	return nil
}

// Engagement

func (s *Store) InsertFeedback(_ context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.nextID()
	f.CreatedAt = s.Now()
	s.feedback = append(s.feedback, *f)
	return nil
}

// Feedback returns a copy of the stored feedback rows.
func (s *Store) Feedback() []domain.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Feedback(nil), s.feedback...)
}

func (s *Store) AddFavorite(_ context.Context, f *domain.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.favorites {
		if existing.Identifier == f.Identifier && existing.QuestionID == f.QuestionID {
			f.ID, f.CreatedAt = existing.ID, existing.CreatedAt
			return nil
		}
	}
	f.ID = s.nextID()
	f.CreatedAt = s.Now()
	s.favorites = append(s.favorites, domain.Favorite{ID: f.ID, Identifier: f.Identifier, QuestionID: f.QuestionID, CreatedAt: f.CreatedAt})
	return nil
}

func (s *Store) ListFavorites(_ context.Context, identifier string) ([]domain.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Favorite
	for i := len(s.favorites) - 1; i >= 0; i-- {
		f := s.favorites[i]
		if f.Identifier != identifier {
			continue
		}
		if q, ok := s.questions[f.QuestionID]; ok {
			cp := *q
			f.Question = &cp
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Store) RemoveFavorite(_ context.Context, identifier, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.favorites {
		if f.Identifier == identifier && f.QuestionID == questionID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) CountFavorites(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites), nil
}

// Quiz

// PutQuiz stores the quiz question for q.Date.
func (s *Store) PutQuiz(q domain.QuizQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = s.nextID()
	}
	s.quiz[q.Date] = q
}

func (s *Store) QuestionForDate(_ context.Context, date string) (*domain.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quiz[date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

func (s *Store) AnswerFor(_ context.Context, identifier, date string) (*domain.QuizAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[identifier+"|"+date]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (s *Store) InsertAnswer(_ context.Context, a *domain.QuizAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := a.Identifier + "|" + a.Date
	if _, ok := s.answers[key]; ok {
		return domain.ErrAlreadyAnswered
	}
	a.ID = s.nextID()
	a.CreatedAt = s.Now()
	s.answers[key] = *a
	return nil
}

func copyFeatures(in domain.FeatureSet) domain.FeatureSet {
	out := make(domain.FeatureSet, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *Store) newestFirst(in []domain.QuestionRecord, limit int) []domain.QuestionRecord {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].CreatedAt.Equal(in[j].CreatedAt) {
			return s.order[in[i].ID] > s.order[in[j].ID]
		}
		return in[i].CreatedAt.After(in[j].CreatedAt)
	})
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}
