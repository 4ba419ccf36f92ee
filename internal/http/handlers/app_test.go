package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"muin/internal/domain"
	"muin/internal/i18n"
)

func TestFailMapsDomainErrors(t *testing.T) {
	a := &App{Logger: zerolog.Nop()}
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrQuotaExceeded, http.StatusTooManyRequests, "quota_exceeded"},
		{fmt.Errorf("ask provider: %w", domain.ErrProviderFailure), http.StatusBadGateway, "provider_error"},
		{domain.ErrRequestInFlight, http.StatusConflict, "in_flight"},
		{domain.ErrAlreadyAnswered, http.StatusConflict, "already_answered"},
		{domain.ErrInvalidQuestion, http.StatusBadRequest, "invalid_question"},
		{domain.ErrInvalidAnswer, http.StatusBadRequest, "invalid_answer"},
		{domain.ErrInvalidSetting, http.StatusBadRequest, "invalid_setting"},
		{domain.ErrInvalidIdentity, http.StatusBadRequest, "invalid_request"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errors.New("db down"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var body i18n.ErrorBody
			if err := jsonUnmarshal(rec, &body); err != nil || body.Error.Code != tc.code {
				t.Fatalf("body = %s", rec.Body.String())
			}
			if body.Error.Message != i18n.Message(i18n.Arabic, tc.code) {
				t.Fatalf("message = %q", body.Error.Message)
			}
		})
	}
}

func TestQuizQuestionRevealsOnlyWhenAnswered(t *testing.T) {
	q := &domain.QuizQuestion{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Explanation: "because"}
	hidden := toQuizQuestion(q, false)
	if hidden.CorrectAnswer != nil || hidden.Explanation != "" {
		t.Fatalf("hidden = %+v", hidden)
	}
	shown := toQuizQuestion(q, true)
	if shown.CorrectAnswer == nil || *shown.CorrectAnswer != 0 || shown.Explanation != "because" {
		t.Fatalf("shown = %+v", shown)
	}
}
