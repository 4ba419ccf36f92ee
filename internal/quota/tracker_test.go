package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"muin/internal/adapter/memstore"
	"muin/internal/domain"
)

func newTracker(now *time.Time) (*Tracker, *memstore.Store) {
	settings := memstore.New()
	tr := NewTracker(NewMemoryStore(), settings, 10, time.UTC, zerolog.Nop())
	tr.SetClock(func() time.Time { return *now })
	return tr, settings
}

func TestFreeTierTenPerDay(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	tr, _ := newTracker(&now)
	ctx := context.Background()
	free := &domain.Entitlement{Identifier: "u"}

	for i := 1; i <= 10; i++ {
		d, err := tr.CheckAndDecrement(ctx, "u", free)
		if err != nil {
			t.Fatal(err)
		}
		if !d.Allowed || d.Remaining != 10-i {
			t.Fatalf("question %d: %+v", i, d)
		}
	}
	d, _ := tr.CheckAndDecrement(ctx, "u", free)
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("11th question should be denied: %+v", d)
	}

	now = now.Add(24 * time.Hour)
	d, _ = tr.CheckAndDecrement(ctx, "u", free)
	if !d.Allowed || d.Remaining != 9 {
		t.Fatalf("next day should reset: %+v", d)
	}
}

func TestActiveEntitlementIsUnlimited(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	tr, _ := newTracker(&now)
	ent := &domain.Entitlement{IsActive: true, EndDate: now.Add(time.Hour)}

	for i := 0; i < 50; i++ {
		d, _ := tr.CheckAndDecrement(context.Background(), "u", ent)
		if !d.Allowed || !d.Unlimited || d.Remaining != -1 {
			t.Fatalf("call %d: %+v", i, d)
		}
	}
	// Unlimited calls never touch the free counter.
	if d := tr.Peek(context.Background(), "u", &domain.Entitlement{}); d.Remaining != 10 {
		t.Fatalf("free counter consumed: %+v", d)
	}
}

func TestLimitFromSettings(t *testing.T) {
	now := time.Now()
	tr, settings := newTracker(&now)
	ctx := context.Background()

	tests := []struct {
		value string
		want  int
	}{
		{"3", 3},
		{" 25 ", 25},
		{"lots", 10},
		{"-4", 10},
	}
	for _, tt := range tests {
		_ = settings.PutSetting(ctx, domain.SettingDailyQuestionLimit, tt.value)
		if got := tr.Limit(ctx); got != tt.want {
			t.Errorf("setting %q: limit %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestZeroLimitDeniesImmediately(t *testing.T) {
	now := time.Now()
	tr, settings := newTracker(&now)
	_ = settings.PutSetting(context.Background(), domain.SettingDailyQuestionLimit, "0")

	d, _ := tr.CheckAndDecrement(context.Background(), "u", nil)
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestDayBoundaryUsesLocalZone(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*3600)
	now := time.Date(2025, 5, 1, 20, 30, 0, 0, time.UTC) // 23:30 local
	tr := NewTracker(NewMemoryStore(), nil, 2, riyadh, zerolog.Nop())
	tr.SetClock(func() time.Time { return now })
	ctx := context.Background()

	tr.CheckAndDecrement(ctx, "u", nil)
	tr.CheckAndDecrement(ctx, "u", nil)
	if d, _ := tr.CheckAndDecrement(ctx, "u", nil); d.Allowed {
		t.Fatal("limit reached before local midnight")
	}
	now = now.Add(time.Hour) // 00:30 local, still the same UTC day
	if d, _ := tr.CheckAndDecrement(ctx, "u", nil); !d.Allowed {
		t.Fatal("quota should reset at local midnight")
	}
}

type fakeRedis struct {
	values map[string]string
	getErr error
	ttl    time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	fake := &fakeRedis{values: map[string]string{}}
	store := &RedisStore{client: fake}
	ctx := context.Background()

	state, err := store.Load(ctx, "u")
	if err != nil || state != nil {
		t.Fatalf("missing key: %v %v", state, err)
	}
	if err := store.Save(ctx, "u", domain.QuotaState{Date: "2025-05-01", Remaining: 4}); err != nil {
		t.Fatal(err)
	}
	if fake.values["quota:u"] != `{"date":"2025-05-01","remaining":4}` {
		t.Fatalf("stored %q", fake.values["quota:u"])
	}
	if fake.ttl != 48*time.Hour {
		t.Fatalf("ttl = %s", fake.ttl)
	}
	state, _ = store.Load(ctx, "u")
	if state == nil || state.Remaining != 4 {
		t.Fatalf("loaded %+v", state)
	}

	fake.values["quota:u"] = "not json"
	if state, err := store.Load(ctx, "u"); state != nil || err != nil {
		t.Fatalf("corrupt state should read as absent: %v %v", state, err)
	}
}

func TestTrackerSurvivesStoreOutage(t *testing.T) {
	fake := &fakeRedis{values: map[string]string{}, getErr: errors.New("dial tcp: refused")}
	tr := NewTracker(&RedisStore{client: fake}, nil, 10, time.UTC, zerolog.Nop())

	d, err := tr.CheckAndDecrement(context.Background(), "u", nil)
	if err != nil || !d.Allowed || d.Remaining != 9 {
		t.Fatalf("decision %+v err %v", d, err)
	}
}
