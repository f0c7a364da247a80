// Package llm provides a provider-agnostic client for hosted chat-completion
// APIs. It performs exactly one HTTP request per Complete call; retry policy
// belongs to the caller (see the advisor package), which needs to distinguish
// transport failures from malformed-content failures.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize limits the LLM response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Client sends chat-completion requests to a single configured endpoint.
type Client struct {
	provider   Provider
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system", "user", or "assistant"
	Content string `json:"content"` // Message content
}

// Request defines an LLM completion request.
type Request struct {
	// Messages is the chat history to send to the LLM.
	Messages []Message

	// Temperature controls randomness. nil uses endpoint default, 0 is deterministic.
	Temperature *float64

	// MaxTokens limits response length. 0 uses endpoint default.
	MaxTokens int
}

// TokenUsage represents token consumption details for an LLM call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the LLM completion result.
type Response struct {
	// RequestID uniquely identifies this LLM call for log correlation.
	RequestID string

	// Content is the generated text.
	Content string

	// Model is the actual model that was used.
	Model string

	// Usage contains token consumption metrics.
	Usage TokenUsage

	// FinishReason indicates why generation stopped.
	FinishReason string
}

// Completer is the interface the advisor engine depends on.
// *Client implements it; testutil provides a mock.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Ready() error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a client for the named provider, base URL, and model.
func NewClient(providerName, baseURL, model string, opts ...ClientOption) (*Client, error) {
	provider := GetProvider(providerName)
	if provider == nil {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}

	c := &Client{
		provider: provider,
		baseURL:  baseURL,
		model:    model,
		httpClient: &http.Client{
			Timeout: 180 * time.Second, // Allow time for LLM responses
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Ready reports whether the client can reach its provider, in particular
// whether the required credential is present. Callers check this before
// building any request so a missing key fails without a network call.
func (c *Client) Ready() error {
	return c.provider.Ready()
}

// Complete sends a single completion request. It never retries: any non-2xx
// status or network failure is returned as a fatal error, and a 2xx response
// with no usable content is returned as a transient error so the caller can
// re-prompt.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, NewFatalError(fmt.Errorf("at least one message is required"))
	}
	if err := c.provider.Ready(); err != nil {
		return nil, NewFatalError(err)
	}

	requestID := uuid.New().String()
	startedAt := time.Now()

	url := c.provider.BuildURL(c.baseURL)

	body, err := c.provider.BuildRequestBody(c.model, req.Messages, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("Sending LLM request",
		"request_id", requestID,
		"provider", c.provider.Name(),
		"model", c.model,
		"messages", len(req.Messages))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	c.provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Retrying against an unreachable upstream within the same user
		// action would not help; surface it immediately.
		return nil, NewFatalError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, statusError(c.provider.Name(), httpResp.StatusCode, respBody)
	}

	resp, err := c.provider.ParseResponse(respBody, c.model)
	if err != nil {
		// A 2xx body we cannot read content from is a content problem,
		// not an infrastructure one.
		return nil, NewTransientError(err)
	}
	resp.RequestID = requestID

	c.logger.Debug("LLM request complete",
		"request_id", requestID,
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(startedAt).Milliseconds())

	return resp, nil
}

// statusError formats a non-2xx response as a fatal transport error.
// Status codes are not distinguished further: 401, 429, and 500 are all
// terminal for the current invocation.
func statusError(provider string, statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}
	return NewFatalError(fmt.Errorf("%s API error (%d): %s", providerLabel(provider), statusCode, bodyStr))
}

// providerLabel maps a provider name to the label used in user-facing errors.
func providerLabel(provider string) string {
	switch provider {
	case "openrouter":
		return "OpenRouter"
	case "ollama":
		return "Ollama"
	default:
		return provider
	}
}
