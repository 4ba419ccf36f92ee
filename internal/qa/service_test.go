package qa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"muin/internal/adapter/memstore"
	"muin/internal/domain"
	"muin/internal/entitlement"
	"muin/internal/providers/answer"
	"muin/internal/quota"
	"muin/internal/usage"
)

type fakeProxy struct {
	mu      sync.Mutex
	calls   int
	prompts []answer.Prompt
	reply   func(answer.Prompt) (*answer.Answer, error)
}

func (f *fakeProxy) Name() string { return "fake" }

func (f *fakeProxy) Ask(ctx context.Context, p answer.Prompt, ent *domain.Entitlement) (*answer.Answer, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()
	if f.reply != nil {
		return f.reply(p)
	}
	return &answer.Answer{Text: "قال تعالى في القرآن", SourceTag: answer.SourceTag}, nil
}

type fixture struct {
	store   *memstore.Store
	manager *entitlement.Manager
	svc     *Service
	proxy   *fakeProxy
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memstore.New(),
		proxy: &fakeProxy{},
		now:   time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.manager = entitlement.NewManager(f.store, 15, 30, zerolog.Nop(), entitlement.WithClock(clock))
	tracker := quota.NewTracker(quota.NewMemoryStore(), f.store, 10, time.UTC, zerolog.Nop())
	tracker.SetClock(clock)
	rec := usage.NewRecorder(f.store, f.store, time.UTC, zerolog.Nop(), nil)
	rec.SetClock(clock)
	f.svc = NewService(Deps{
		Entitlements: f.manager,
		Quota:        tracker,
		Proxy:        f.proxy,
		Recorder:     rec,
		Questions:    f.store,
		Logger:       zerolog.Nop(),
	})
	return f
}

// expireTrial moves the clock past the trial so the identifier is free tier.
func (f *fixture) expireTrial(t *testing.T, identifier string) {
	t.Helper()
	f.manager.Ensure(context.Background(), identifier)
	f.now = f.now.AddDate(0, 0, 16)
}

func TestAskHappyPathRecordsQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Ask(ctx, AskInput{Identifier: "user_1", Question: "ما حكم صلاة الوتر؟", Style: "brief"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.QuestionID == "" || res.SourceTag != answer.SourceTag || res.Style != domain.StyleBrief {
		t.Fatalf("result = %+v", res)
	}
	if !res.Quota.Unlimited {
		t.Fatal("new identifier should be on an unlimited trial")
	}
	rec, err := f.store.GetQuestion(ctx, res.QuestionID)
	if err != nil || rec.Answer != res.Answer {
		t.Fatalf("stored record = %+v, %v", rec, err)
	}
	if f.proxy.prompts[0].System == "" || !strings.Contains(f.proxy.prompts[0].User, "ما حكم صلاة الوتر؟") {
		t.Fatalf("prompt = %+v", f.proxy.prompts[0])
	}
}

func TestAskAboutQuestionHasNoSourceTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.proxy.reply = func(answer.Prompt) (*answer.Answer, error) {
		text := "Muin is an assistant for questions about the Quran and Sunnah."
		return &answer.Answer{Text: text, SourceTag: answer.DetectSource(text)}, nil
	}

	res, err := f.svc.Ask(ctx, AskInput{Identifier: "user_about", Question: "Who built this app?"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if res.SourceTag != "" {
		t.Fatalf("source tag = %q, want empty", res.SourceTag)
	}
	rec, err := f.store.GetQuestion(ctx, res.QuestionID)
	if err != nil || rec.SourceTag != "" {
		t.Fatalf("stored record = %+v, %v", rec, err)
	}
}

func TestAskStoresTheQuestionSentToProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	question := "is x<y & y<z allowed &amp; why?"

	res, err := f.svc.Ask(ctx, AskInput{Identifier: "user_raw", Question: question})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	list, err := f.store.ListByIdentifier(ctx, "user_raw", 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("history = %+v, %v", list, err)
	}
	if list[0].Question != question || list[0].Answer != res.Answer {
		t.Fatalf("stored = %q / %q", list[0].Question, list[0].Answer)
	}
	if !strings.Contains(f.proxy.prompts[0].User, question) {
		t.Fatalf("prompt does not carry the stored question: %q", f.proxy.prompts[0].User)
	}
}

func TestAskFreeTierStopsAtLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.expireTrial(t, "user_free")

	for i := 0; i < 10; i++ {
		res, err := f.svc.Ask(ctx, AskInput{Identifier: "user_free", Question: "What is zakat?"})
		if err != nil {
			t.Fatalf("question %d: %v", i+1, err)
		}
		if res.Quota.Remaining != 9-i {
			t.Fatalf("question %d remaining = %d", i+1, res.Quota.Remaining)
		}
	}
	res, err := f.svc.Ask(ctx, AskInput{Identifier: "user_free", Question: "What is zakat?"})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("11th question err = %v", err)
	}
	if res == nil || res.Quota.Remaining != 0 {
		t.Fatalf("denied result = %+v", res)
	}
	if f.proxy.calls != 10 {
		t.Fatalf("provider calls = %d, want 10", f.proxy.calls)
	}
}

func TestAskActiveSubscriberUnlimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.manager.Activate(ctx, "user_paid", "admin", ""); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		if _, err := f.svc.Ask(ctx, AskInput{Identifier: "user_paid", Question: "سؤال"}); err != nil {
			t.Fatalf("question %d: %v", i+1, err)
		}
	}
}

func TestAskProviderFailureRecordsNothing(t *testing.T) {
	f := newFixture(t)
	f.proxy.reply = func(answer.Prompt) (*answer.Answer, error) {
		return nil, &answer.ProviderError{Provider: "fake", StatusCode: 500, Body: "boom"}
	}
	ctx := context.Background()

	_, err := f.svc.Ask(ctx, AskInput{Identifier: "user_2", Question: "سؤال"})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v", err)
	}
	if n, _ := f.store.CountQuestions(ctx); n != 0 {
		t.Fatalf("questions stored = %d", n)
	}
	if stats, _ := f.store.Latest(ctx, 1); len(stats) != 0 {
		t.Fatalf("stats updated on failure: %+v", stats)
	}
}

func TestAskValidatesQuestion(t *testing.T) {
	f := newFixture(t)
	tests := []string{"", "   ", "[معرف المستخدم: x]", strings.Repeat("س", 2001)}
	for _, q := range tests {
		if _, err := f.svc.Ask(context.Background(), AskInput{Identifier: "u", Question: q}); !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Errorf("question of %d runes: err = %v", len([]rune(q)), err)
		}
	}
	if f.proxy.calls != 0 {
		t.Fatal("provider must not be called for invalid input")
	}
}

func TestAskUnknownStyleFallsBackToDetailed(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Ask(context.Background(), AskInput{Identifier: "u", Question: "What is hajj?", Style: "poetic"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Style != domain.StyleDetailed {
		t.Fatalf("style = %s", res.Style)
	}
}

func TestAskRejectsConcurrentRequest(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.proxy.reply = func(answer.Prompt) (*answer.Answer, error) {
		close(entered)
		<-release
		return &answer.Answer{Text: "ok"}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Ask(context.Background(), AskInput{Identifier: "user_3", Question: "first"})
		done <- err
	}()
	<-entered

	if _, err := f.svc.Ask(context.Background(), AskInput{Identifier: "user_3", Question: "second"}); !errors.Is(err, domain.ErrRequestInFlight) {
		t.Fatalf("concurrent err = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first ask: %v", err)
	}
	f.proxy.reply = nil
	if _, err := f.svc.Ask(context.Background(), AskInput{Identifier: "user_3", Question: "third"}); err != nil {
		t.Fatalf("guard not released: %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, q := range []string{"one", "two", "three"} {
		if _, err := f.svc.Ask(ctx, AskInput{Identifier: "user_4", Question: q}); err != nil {
			t.Fatal(err)
		}
		f.now = f.now.Add(time.Minute)
	}
	items, err := f.svc.History(ctx, "user_4", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Question != "three" {
		t.Fatalf("history = %+v", items)
	}
}
