package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"muin/internal/domain"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

var openAIModelAliases = map[string]string{
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt-4":                  "gpt-4o",
	"gpt4":                   "gpt-4o",
	"gpt-35-turbo":           "gpt-3.5-turbo",
	"gpt-3.5":                "gpt-3.5-turbo",
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAI calls the chat completions endpoint.
type OpenAI struct {
	base
	organization string
}

func NewOpenAI(opts Options) (*OpenAI, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	opts.Model = normalizeOpenAIModel(opts.Model)
	return &OpenAI{
		base:         newBase(ProviderOpenAI, openAIDefaultBaseURL, defaultOpenAIModel, opts),
		organization: strings.TrimSpace(opts.Organization),
	}, nil
}

func normalizeOpenAIModel(model string) string {
	key := strings.ToLower(strings.TrimSpace(model))
	if key == "" {
		return defaultOpenAIModel
	}
	if alias, ok := openAIModelAliases[key]; ok {
		return alias
	}
	return key
}

func (o *OpenAI) Ask(ctx context.Context, p Prompt, ent *domain.Entitlement) (*Answer, error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	payload := openAIChatRequest{
		Model:       o.model,
		Temperature: temperature,
		MaxTokens:   o.maxTokens(ent),
	}
	if p.System != "" {
		payload.Messages = append(payload.Messages, openAIMessage{Role: "system", Content: p.System})
	}
	payload.Messages = append(payload.Messages, openAIMessage{Role: "user", Content: p.User})

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, o.fail(0, "", fmt.Errorf("encode request: %w", err))
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, o.fail(0, "", fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}

	raw, err := o.do(httpReq)
	if err != nil {
		return nil, err
	}
	var out openAIChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, o.fail(http.StatusOK, truncate(raw), fmt.Errorf("decode response: %w", err))
	}
	if len(out.Choices) == 0 {
		return nil, o.fail(http.StatusOK, truncate(raw), errors.New("no choices"))
	}
	return o.finish(out.Choices[0].Message.Content, raw, started)
}
