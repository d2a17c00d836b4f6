// Package llm is a small client for the text-generation services used to
// suggest episode tags: the OpenAI Responses API, OpenAI chat completions via
// the official SDK, and local OpenAI-compatible servers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"github.com/fortyninthit/episodes/internal/output"
)

// ErrNoCredential is returned by New when a cloud provider has no API key.
var ErrNoCredential = errors.New("no API credential configured")

// Provider selects the wire protocol used for a completion.
type Provider string

// Supported providers.
const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenAIChat Provider = "openai-chat"
	ProviderLocal      Provider = "local"
)

// DefaultOpenAIURL is the base URL for both OpenAI providers.
const DefaultOpenAIURL = "https://api.openai.com/v1"

// DefaultLocalURL is the LM Studio default; Ollama users set base_url.
const DefaultLocalURL = "http://localhost:1234/v1"

// maxErrorBody bounds how much of a failed response is kept in errors.
const maxErrorBody = 500

// Schema is a named JSON schema the response must conform to.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Request represents a completion request.
type Request struct {
	System      string            // System prompt
	Prompt      string            // User prompt
	Temperature float64           // Temperature (0 uses default)
	MaxTokens   int               // Max output tokens (0 uses default)
	Schema      *Schema           // Structured output contract, if any
	Metadata    map[string]string // Request metadata (Responses API only)
}

// Usage reports token accounting when the service returns it.
type Usage struct {
	Input     int64 `json:"input,omitempty"`
	Output    int64 `json:"output,omitempty"`
	Total     int64 `json:"total,omitempty"`
	Reasoning int64 `json:"reasoning,omitempty"`
}

// Response represents a completion response.
type Response struct {
	Content      string // Best-effort concatenated text
	Model        string // Model used
	FinishReason string // Finish reason or status, when reported
	Usage        *Usage // Token usage, when reported
	Raw          []byte // Raw response body
}

// APIError is a non-success HTTP status from the service.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config selects and authenticates a provider.
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration // 0 uses the transport default
	MaxAttempts int           // values below 1 mean a single attempt
}

// Client is a provider-agnostic completion client.
type Client struct {
	provider    Provider
	model       string
	apiKey      string
	baseURL     string
	maxAttempts int
	httpClient  HTTPDoer
	backoff     *backoff.Backoff
	sleep       func(context.Context, time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPDoer replaces the HTTP transport.
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) { c.httpClient = doer }
}

// WithSleep replaces the wait between retries.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New creates a client from cfg. Cloud providers without an API key return
// ErrNoCredential.
func New(cfg Config, opts ...Option) (*Client, error) {
	provider := Provider(strings.ToLower(string(cfg.Provider)))
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI, ProviderOpenAIChat:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, ErrNoCredential
		}
	case ProviderLocal:
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s (supported: %s)", provider, strings.Join(SupportedProviders(), ", ")))
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL(provider)
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	c := &Client{
		provider:    provider,
		model:       resolveModelAlias(cfg.Model, provider),
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		maxAttempts: attempts,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		backoff: &backoff.Backoff{
			Min:    500 * time.Millisecond,
			Max:    8 * time.Second,
			Factor: 2,
			Jitter: true,
		},
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the resolved model name.
func (c *Client) Model() string { return c.model }

// Provider returns the configured provider.
func (c *Client) Provider() Provider { return c.provider }

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	switch c.provider {
	case ProviderOpenAI:
		return c.completeResponses(ctx, req)
	case ProviderOpenAIChat:
		return c.completeChat(ctx, req)
	case ProviderLocal:
		return c.completeLocal(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
}

func defaultBaseURL(provider Provider) string {
	if provider == ProviderLocal {
		return DefaultLocalURL
	}
	return DefaultOpenAIURL
}

// Model aliases - just convenient shorthands, users can pass full names directly.
var modelAliases = map[Provider]map[string]string{
	ProviderOpenAI: {
		"mini": "gpt-4o-mini",
		"nano": "gpt-4.1-nano",
	},
	ProviderOpenAIChat: {
		"mini": "gpt-4o-mini",
		"nano": "gpt-4.1-nano",
	},
	ProviderLocal: {
		"local": "default",
	},
}

// resolveModelAlias expands shorthand aliases, passes through unknown names.
func resolveModelAlias(model string, provider Provider) string {
	if aliases, ok := modelAliases[provider]; ok {
		if resolved, ok := aliases[strings.ToLower(model)]; ok {
			return resolved
		}
	}
	return model
}

// SupportedProviders returns the provider names accepted in configuration.
func SupportedProviders() []string {
	return []string{string(ProviderOpenAI), string(ProviderOpenAIChat), string(ProviderLocal)}
}

// retry runs fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	if c.backoff == nil {
		c.backoff = &backoff.Backoff{}
	}
	c.backoff.Reset()
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= c.maxAttempts || !isRetryable(err) {
			return err
		}
		sleep := c.sleep
		if sleep == nil {
			sleep = sleepContext
		}
		if sleepErr := sleep(ctx, c.backoff.Duration()); sleepErr != nil {
			return err
		}
	}
}

func isRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doRequest performs an HTTP POST with a JSON body, retrying 429 and 5xx
// responses up to the client's attempt budget.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	var respBody []byte
	err = c.retry(ctx, func() error {
		var attemptErr error
		respBody, attemptErr = c.post(ctx, url, jsonBody, headers)
		return attemptErr
	})
	return respBody, err
}

func (c *Client) post(ctx context.Context, url string, jsonBody []byte, headers map[string]string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Body: truncate(string(respBody), maxErrorBody)}
		return respBody, output.NewSystemErrorWithCause(apiErr.Error(), apiErr)
	}

	return respBody, nil
}

// truncate bounds s to n bytes to keep secrets and huge bodies out of errors.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func (c *Client) bearer() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}
