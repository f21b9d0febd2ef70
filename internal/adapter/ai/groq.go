package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/metrics"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqConfig holds the configuration for the chat-completion endpoint.
type GroqConfig struct {
	APIKey  string
	BaseURL string // e.g. https://api.groq.com/openai/v1
	Model   string // e.g. llama-3.3-70b-versatile
	// Timeout bounds a single round trip. Zero means no extra deadline.
	Timeout time.Duration
}

// GroqGateway implements port.LLMGateway against any OpenAI-compatible API.
type GroqGateway struct {
	client  *openai.Client
	cfg     GroqConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

var _ port.LLMGateway = (*GroqGateway)(nil)

// NewGroqGateway creates a gateway. httpClient may be nil.
func NewGroqGateway(cfg GroqConfig, httpClient *http.Client, logger zerolog.Logger, m *metrics.Metrics) *GroqGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGroqBaseURL
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}

	return &GroqGateway{
		client:  openai.NewClientWithConfig(oc),
		cfg:     cfg,
		logger:  logger.With().Str("component", "llm").Logger(),
		metrics: m,
	}
}

// ModelName returns the chat model identifier.
func (g *GroqGateway) ModelName() string {
	return g.cfg.Model
}

// Complete performs one chat completion and returns the content with any
// reasoning preamble removed.
func (g *GroqGateway) Complete(ctx context.Context, req port.CompletionRequest) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	body := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	operation := "completion"
	if req.JSON {
		operation = "completion_json"
	}

	start := time.Now()
	content, err := g.complete(ctx, body)
	g.metrics.RecordUpstream("llm", operation, metrics.Outcome(err), time.Since(start).Seconds())
	if err != nil {
		g.logger.Error().Err(err).Str("model", g.cfg.Model).Bool("json", req.JSON).Msg("completion failed")
		return "", err
	}

	g.logger.Debug().
		Str("model", g.cfg.Model).
		Int("chars", len(content)).
		Dur("took", time.Since(start)).
		Msg("completion finished")
	return content, nil
}

func (g *GroqGateway) complete(ctx context.Context, body openai.ChatCompletionRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrLLMUnavailable)
	}

	content := strings.TrimSpace(StripReasoning(resp.Choices[0].Message.Content))
	if content == "" {
		return "", fmt.Errorf("%w: empty content", domain.ErrLLMUnavailable)
	}
	return content, nil
}
