package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"muin/internal/admin"
	"muin/internal/i18n"
	"muin/internal/identity"
)

func TestAdminAuth(t *testing.T) {
	auth, err := admin.NewAuthenticator("secret", "", "ops", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	good, _, _ := auth.Sign("ops")

	var actor string
	h := AdminAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
		{"lowercase scheme", "bearer " + good, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actor = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK && actor != "ops" {
				t.Fatalf("actor = %q", actor)
			}
			if tc.want == http.StatusUnauthorized {
				var body i18n.ErrorBody
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error.Code != "unauthorized" {
					t.Fatalf("body = %s", rec.Body.String())
				}
			}
		})
	}
}

func TestIdentityMiddlewareMintsAndReuses(t *testing.T) {
	p := identity.NewProvider(zerolog.Nop())
	var seen string
	h := Identity(p, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identity.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.HasPrefix(seen, "user_") {
		t.Fatalf("minted = %q", seen)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != seen {
		t.Fatalf("cookies = %+v", cookies)
	}

	first := seen
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != first {
		t.Fatalf("identifier changed: %q -> %q", first, seen)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("existing identifier should not be re-set")
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	rec := &statusRecorder{}
	h := RequestID(Logger(zerolog.Nop(), rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if len(rec.statuses) != 1 || rec.statuses[0] != http.StatusTeapot {
		t.Fatalf("statuses = %v", rec.statuses)
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}
}

type statusRecorder struct {
	statuses []int
}

func (s *statusRecorder) RecordQuestion(string)                       {}
func (s *statusRecorder) RecordProviderLatency(string, time.Duration) {}
func (s *statusRecorder) RecordPersistenceFailure()                   {}
func (s *statusRecorder) RecordHTTPStatus(code int)                   { s.statuses = append(s.statuses, code) }
func (s *statusRecorder) RecordExpiredSwept(int)                      {}
