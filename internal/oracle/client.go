package oracle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tartampluch/go-fortune/internal/config"
)

// Options is the per-request generation budget.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Generator produces text from a system and a user prompt.
// Implementations fail only with *Error.
type Generator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// Client implements Generator against an OpenAI-compatible chat completion API.
type Client struct {
	client  *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
}

// NewClient creates a client. An empty apiKey is accepted; every call then fails with ErrNoAPIKey.
func NewClient(s config.OracleSettings) *Client {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}

	model := s.Model
	if model == "" {
		model = config.DefaultModel
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTextTimeout
	}

	return &Client{
		client:  openai.NewClientWithConfig(cfg),
		apiKey:  s.APIKey,
		model:   model,
		timeout: timeout,
	}
}

// GenerateText sends one chat completion request and returns the trimmed first choice.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	slog.Debug(config.MsgTextRequest,
		config.LogKeyComponent, config.CompOracle,
		config.LogKeyModel, c.model,
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		cerr := classify(ctx, err)
		slog.Debug(config.MsgTextFailed,
			config.LogKeyComponent, config.CompOracle,
			config.LogKeyKind, cerr.Kind,
		)
		return "", cerr
	}

	if len(resp.Choices) == 0 {
		return "", newError(KindInvalidResponse, errors.New("no response choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", newError(KindInvalidResponse, errors.New("empty completion"))
	}

	slog.Debug(config.MsgTextDone,
		config.LogKeyComponent, config.CompOracle,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return text, nil
}

// classify maps transport and API failures onto the error kinds callers act on.
func classify(ctx context.Context, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(KindTimeout, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newError(kindForStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newError(kindForStatus(reqErr.HTTPStatusCode), err)
	}
	return newError(KindNetwork, err)
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusUnauthorized:
		return KindNoAPIKey
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return KindTimeout
	default:
		return KindNetwork
	}
}
