// Package llm adapts an OpenAI-compatible chat-completion endpoint to the
// small capability the translator needs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
)

// ErrNoBaseURL is returned when no endpoint is configured.
var ErrNoBaseURL = errors.New("base url is required")

// placeholderKey is sent to local servers that do not check keys.
const placeholderKey = "not-needed"

// Request is a single chat completion call.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer turns a prompt pair into model output.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ModelLister lists the models an endpoint serves.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// StatusError is an HTTP-level failure reported by the endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Code, e.Message)
}

// Client talks to an OpenAI-compatible server. SDK retries are disabled;
// callers own recovery.
type Client struct {
	sdk     openai.Client
	baseURL string
}

// NewClient creates a client for baseURL. apiKey may be empty for local
// servers.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if apiKey == "" {
		apiKey = placeholderKey
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	sdk := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	)
	return &Client{sdk: sdk, baseURL: baseURL}, nil
}

// Complete sends one system+user exchange and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response: no choices")
	}

	log.Debug().
		Str("model", req.Model).
		Int64("prompt_tokens", resp.Usage.PromptTokens).
		Int64("output_tokens", resp.Usage.CompletionTokens).
		Msg("Completion received")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ListModels returns the model IDs the server advertises.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.sdk.Models.List(ctx)
	if err != nil {
		return nil, wrapError("list models", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// BaseURL returns the endpoint the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// wrapError converts SDK API errors to *StatusError and wraps everything
// else with op.
func wrapError(op string, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := apiErr.Message
	if apiErr.Code != "" {
		msg = apiErr.Code + ": " + msg
	}
	if strings.TrimSpace(msg) == "" {
		msg = http.StatusText(apiErr.StatusCode)
		if apiErr.Request != nil && apiErr.Response != nil {
			msg = apiErr.Error()
		}
	}
	return &StatusError{Code: apiErr.StatusCode, Message: msg}
}
