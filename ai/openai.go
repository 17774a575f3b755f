// Package ai binds the code rewriter to an OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/ultrabuild/ultrabuild/domain"
	"golang.org/x/time/rate"
)

// ErrEmptyCompletion is returned when the API answers without any choice
var ErrEmptyCompletion = errors.New("completion returned no choices")

// Completer produces a single text completion
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client is a rate limited chat completion client
type Client struct {
	c     *sdk.Client
	model string
	l     *rate.Limiter
}

// NewClient creates a chat completion client. requestsPerMinute bounds the call rate.
func NewClient(apiKey, baseURL, model string, requestsPerMinute int) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.NotConfigured("OPENAI_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := sdk.NewClient(opts...)

	burst := max(1, requestsPerMinute/10)
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(max(1, requestsPerMinute))), burst)
	slog.Debug("AI client configured", "model", model, "rate", requestsPerMinute, "burst", burst)

	return &Client{c: &c, model: model, l: l}, nil
}

// Complete sends a system and user message and returns the first choice
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.l.Wait(ctx); err != nil {
		return "", err
	}

	slog.DebugContext(ctx, "completion request", "model", c.model, "prompt_len", len(prompt))
	res, err := c.c.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(system),
			sdk.UserMessage(prompt),
		},
		Model: sdk.ChatModel(c.model),
	})
	if err != nil {
		return "", &domain.ExternalCallError{Service: "openai", Operation: "chat completion", Err: err}
	}
	if len(res.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := res.Choices[0].Message.Content
	slog.DebugContext(ctx, "completion response", "model", c.model, "content_len", len(content))
	return content, nil
}
