package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/misrafix/misrafix/internal/domain"
)

const (
	openAIEndpoint  = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4"
	azureAPIVersion = "2024-02-15-preview"

	requestTimeout = 60 * time.Second
	maxTokens      = 1024

	// maxRetries is the number of additional attempts after the first, on
	// throttling responses only.
	maxRetries = 2

	// defaultPacing is the fixed delay before every attempt, including the
	// first, as defensive pacing against rate limits.
	defaultPacing = 500 * time.Millisecond

	// defaultBackoffBase seeds the exponential backoff used when the
	// throttling response carries no Retry-After hint.
	defaultBackoffBase = time.Second
)

// Doer abstracts the HTTP transport so tests inject a fake.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements domain.CompletionService over the two supported
// provider routing shapes.
type Client struct {
	cfg         domain.CompletionConfig
	http        Doer
	pacing      time.Duration
	backoffBase time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDoer overrides the HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithPacing overrides the fixed pre-attempt delay.
func WithPacing(d time.Duration) Option {
	return func(c *Client) { c.pacing = d }
}

// WithBackoffBase overrides the exponential backoff seed.
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) { c.backoffBase = d }
}

// NewClient creates a completion client for the given connection profile.
func NewClient(cfg domain.CompletionConfig, opts ...Option) *Client {
	c := &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: requestTimeout},
		pacing:      defaultPacing,
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat-completion wire shapes, shared by both providers.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete submits the prompt and returns the single completion's text.
// Sequential attempts only: a fixed pacing delay precedes every attempt,
// throttling responses are retried up to maxRetries times honoring the
// server's Retry-After hint, and every other failure maps onto the domain
// error taxonomy without retrying.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.cfg.Configured() {
		return "", domain.ErrConfigurationMissing
	}
	if err := c.cfg.Validate(); err != nil {
		return "", err
	}

	var lastHint time.Duration
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := sleepCtx(ctx, c.pacing); err != nil {
			return "", err
		}

		text, retryAfter, err := c.attempt(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}

		var throttled *throttledError
		if !errors.As(err, &throttled) {
			return "", err
		}

		// Throttled: honor the hint, else exponential backoff.
		lastHint = retryAfter
		if lastHint <= 0 {
			lastHint = c.backoffBase * (1 << (attempt + 1))
		}
		if attempt < maxRetries {
			if err := sleepCtx(ctx, lastHint); err != nil {
				return "", err
			}
		}
	}

	return "", &domain.RateLimitedError{RetryAfter: lastHint}
}

// throttledError marks a 429 internally so the retry loop can tell it apart
// from the terminal failures.
type throttledError struct{}

func (*throttledError) Error() string { return "throttled" }

func (c *Client) attempt(ctx context.Context, systemPrompt, userPrompt string) (string, time.Duration, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, systemPrompt, userPrompt)
	if err != nil {
		return "", 0, &domain.CompletionError{Detail: "building request", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", 0, domain.ErrRequestTimeout
		}
		return "", 0, &domain.CompletionError{Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return parseCompletion(resp.Body)
	case http.StatusTooManyRequests:
		return "", parseRetryAfter(resp.Header.Get("Retry-After")), &throttledError{}
	case http.StatusUnauthorized:
		return "", 0, domain.ErrInvalidCredential
	case http.StatusForbidden:
		return "", 0, domain.ErrAccessDenied
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, &domain.CompletionError{
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(body)),
		}
	}
}

// buildRequest selects payload and header shape by provider kind.
func (c *Client) buildRequest(ctx context.Context, systemPrompt, userPrompt string) (*http.Request, error) {
	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	}

	var endpoint string
	switch c.cfg.Provider {
	case domain.ProviderAzure:
		// Deployment-routed: model is implied by the deployment, the
		// credential travels in an api-key header.
		version := c.cfg.APIVersion
		if version == "" {
			version = azureAPIVersion
		}
		endpoint = fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			strings.TrimRight(c.cfg.Endpoint, "/"),
			url.PathEscape(c.cfg.Deployment),
			url.QueryEscape(version),
		)
	default:
		// Direct-endpoint: fixed URL, bearer credential, explicit model.
		payload.Model = c.cfg.Model
		if payload.Model == "" {
			payload.Model = defaultModel
		}
		endpoint = openAIEndpoint
		if c.cfg.Endpoint != "" {
			endpoint = c.cfg.Endpoint
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Provider == domain.ProviderAzure {
		req.Header.Set("api-key", c.cfg.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	return req, nil
}

func parseCompletion(body io.Reader) (string, time.Duration, error) {
	var reply chatResponse
	if err := json.NewDecoder(body).Decode(&reply); err != nil {
		return "", 0, &domain.CompletionError{Detail: "decoding response", Err: err}
	}
	if len(reply.Choices) == 0 {
		return "", 0, &domain.CompletionError{Detail: "response contains no completion"}
	}
	return reply.Choices[0].Message.Content, 0, nil
}

// parseRetryAfter reads a seconds-valued Retry-After header. Zero when
// absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
