package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"muin/internal/domain"
)

const (
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel   = "gemini-1.5-flash"
)

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	CandidateCount  int     `json:"candidateCount"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Gemini calls the generateContent endpoint.
type Gemini struct {
	base
}

func NewGemini(opts Options) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	return &Gemini{base: newBase(ProviderGemini, geminiDefaultBaseURL, geminiDefaultModel, opts)}, nil
}

func (g *Gemini) Ask(ctx context.Context, p Prompt, ent *domain.Entitlement) (*Answer, error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: p.User}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			CandidateCount:  1,
			MaxOutputTokens: g.maxTokens(ent),
		},
	}
	if p.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: p.System}}}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, g.fail(0, "", fmt.Errorf("encode request: %w", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return nil, g.fail(0, "", fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	raw, err := g.do(httpReq)
	if err != nil {
		return nil, err
	}
	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, g.fail(http.StatusOK, truncate(raw), fmt.Errorf("decode response: %w", err))
	}
	return g.finish(firstCandidateText(out), raw, started)
}

func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func firstCandidateText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var buf bytes.Buffer
	for _, part := range resp.Candidates[0].Content.Parts {
		buf.WriteString(part.Text)
	}
	return buf.String()
}

func truncate(raw []byte) string {
	if len(raw) > maxErrorBodyLen {
		raw = raw[:maxErrorBodyLen]
	}
	return string(raw)
}
