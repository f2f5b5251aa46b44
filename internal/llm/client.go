package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/metrics"
	"github.com/community-resources/backend/pkg/config"
	"github.com/community-resources/backend/pkg/logger"
)

// ErrMissingAPIKey is a deployment problem, not a user error. Surfaced
// at construction time so no request ever reaches the network without
// credentials.
var ErrMissingAPIKey = errors.New("completion service API key is not set")

// UpstreamError carries the completion service's status and message
// verbatim so the HTTP layer can mirror them.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion service error (%d): %s", e.StatusCode, e.Message)
}

// Message is one turn of caller-supplied conversation history. Roles
// follow the upstream convention: "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client submits prompts to the completion service. Each call is a
// fresh, independent, non-streaming request: no caching, no retry, no
// backoff. Interactive human-paced traffic; transient upstream failures
// are the caller's concern. A semaphore caps concurrent in-flight
// requests so a burst cannot exhaust the upstream rate limit.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	sem         chan struct{}
}

func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	logger.Info("Completion client initialized",
		zap.String("model", cfg.Model),
		zap.Int("max_tokens", maxTokens),
		zap.Int("max_concurrent", maxConcurrent),
	)

	return &Client{
		api:         openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		sem:         make(chan struct{}, maxConcurrent),
	}, nil
}

// Complete sends the compiled instruction as the system turn and the
// raw user query as the single user turn.
func (c *Client) Complete(ctx context.Context, systemPrompt, userQuery string) (string, error) {
	return c.Chat(ctx, systemPrompt, []Message{{Role: "user", Content: userQuery}})
}

// Chat sends the system prompt plus caller-supplied history. History is
// per call; nothing is stored server-side between requests.
func (c *Client) Chat(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", translateError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{
			StatusCode: http.StatusBadGateway,
			Message:    "completion service returned an empty response",
		}
	}

	metrics.LLMTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	logger.Debug("Completion generated",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.HTTPStatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		return &UpstreamError{StatusCode: status, Message: apiErr.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{
			StatusCode: http.StatusGatewayTimeout,
			Message:    "completion service timed out",
		}
	}
	return &UpstreamError{StatusCode: http.StatusBadGateway, Message: err.Error()}
}
