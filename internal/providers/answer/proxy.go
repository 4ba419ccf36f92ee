// Package answer calls the generative text provider and normalises its reply.
package answer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"muin/internal/domain"
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// SourceTag is attached to answers that cite the Quran or hadith.
const SourceTag = "القرآن الكريم والسنة النبوية"

const (
	defaultTimeout  = 30 * time.Second
	temperature     = 0.3
	maxErrorBodyLen = 2048
)

// Prompt is the composed provider input.
type Prompt struct {
	System string
	User   string
}

// Answer is a successful provider reply.
type Answer struct {
	Text      string
	SourceTag string
	Provider  string
	Model     string
	Latency   time.Duration
}

// Proxy sends one prompt to a provider. There is no retry.
type Proxy interface {
	Ask(ctx context.Context, p Prompt, ent *domain.Entitlement) (*Answer, error)
	Name() string
}

// Budget maps the entitlement tier to an output token limit.
type Budget struct {
	Free    int
	Premium int
}

// Options configures a provider client.
type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Timeout      time.Duration
	Budget       Budget
	Now          func() time.Time
}

// New returns the client for provider.
func New(provider string, opts Options) (Proxy, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGemini:
		return NewGemini(opts)
	case ProviderOpenAI:
		return NewOpenAI(opts)
	default:
		return nil, fmt.Errorf("unsupported answer provider %q", provider)
	}
}

// ProviderError describes any failed provider call. It matches
// domain.ErrProviderFailure under errors.Is.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s provider", e.Provider)
	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, " status %d", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool {
	return target == domain.ErrProviderFailure
}

var citationMarkers = []string{
	"قرآن",
	"القرآن",
	"حديث",
	"صحيح البخاري",
	"صحيح مسلم",
	"سنن",
	"quran",
	"qur'an",
	"hadith",
	"bukhari",
	"sahih muslim",
	"tirmidhi",
	"abu dawud",
}

// DetectSource returns SourceTag when text mentions a known citation.
// It is a keyword match, not a verification of the citation.
func DetectSource(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range citationMarkers {
		if strings.Contains(lower, marker) {
			return SourceTag
		}
	}
	return ""
}

type base struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	timeout time.Duration
	budget  Budget
	now     func() time.Time
}

func newBase(name, defaultBaseURL, defaultModel string, opts Options) base {
	b := base{
		name:    name,
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   strings.TrimSpace(opts.Model),
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		client:  opts.HTTPClient,
		timeout: opts.Timeout,
		budget:  opts.Budget,
		now:     opts.Now,
	}
	if b.baseURL == "" {
		b.baseURL = defaultBaseURL
	}
	if b.model == "" {
		b.model = defaultModel
	}
	if b.timeout <= 0 {
		b.timeout = defaultTimeout
	}
	if b.client == nil {
		b.client = &http.Client{Timeout: b.timeout}
	}
	if b.budget.Free <= 0 {
		b.budget.Free = 1000
	}
	if b.budget.Premium <= 0 {
		b.budget.Premium = 2000
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

func (b base) Name() string { return b.name }

func (b base) maxTokens(ent *domain.Entitlement) int {
	if ent.ActiveAt(b.now()) {
		return b.budget.Premium
	}
	return b.budget.Free
}

func (b base) fail(status int, body string, err error) *ProviderError {
	return &ProviderError{Provider: b.name, StatusCode: status, Body: body, Err: err}
}

// do sends req and returns the body of a 2xx response.
func (b base) do(req *http.Request) ([]byte, error) {
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, b.fail(0, "", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return nil, b.fail(resp.StatusCode, string(raw), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, b.fail(resp.StatusCode, "", err)
	}
	return raw, nil
}

// finish turns the first candidate into an Answer. raw is the decoded 2xx
// body, kept on the error when the candidate is empty.
func (b base) finish(text string, raw []byte, started time.Time) (*Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, b.fail(http.StatusOK, truncate(raw), fmt.Errorf("empty answer"))
	}
	return &Answer{
		Text:      text,
		SourceTag: DetectSource(text),
		Provider:  b.name,
		Model:     b.model,
		Latency:   time.Since(started),
	}, nil
}
