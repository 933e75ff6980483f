package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/errors"

	"github.com/abadojack/whatlanggo"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 30 * time.Second
)

var _ contract.Judge = (*Client)(nil)

// Client calls an OpenAI compatible chat completions endpoint.
// Without an API key the client reports itself unavailable and every
// call fails with errors.ErrJudgeUnavailable.
type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

type Option func(*config)

type config struct {
	baseURL   string
	model     string
	timeout   time.Duration
	retryMax  int
	retryWait time.Duration
	transport http.RoundTripper
}

func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithMaxRetries sets the maximum number of retries on connection errors and 5xx.
func WithMaxRetries(retryMax int) Option {
	return func(c *config) { c.retryMax = retryMax }
}

func WithRetryWaitMin(wait time.Duration) Option {
	return func(c *config) { c.retryWait = wait }
}

func WithTransport(transport http.RoundTripper) Option {
	return func(c *config) { c.transport = transport }
}

func NewClient(log *slog.Logger, apiKey string, options ...Option) *Client {
	cfg := config{
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		timeout:   defaultTimeout,
		retryMax:  2,
		retryWait: 500 * time.Millisecond,
		transport: cleanhttp.DefaultPooledTransport(),
	}
	for _, option := range options {
		option(&cfg)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = cfg.transport
	retryClient.RetryMax = cfg.retryMax
	retryClient.RetryWaitMin = cfg.retryWait
	retryClient.RetryWaitMax = 4 * cfg.retryWait
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: log.With("subsystem", "judge")})
	retryClient.CheckRetry = retryPolicy

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = cfg.timeout

	return &Client{
		log:     log,
		http:    httpClient,
		baseURL: cfg.baseURL,
		apiKey:  apiKey,
		model:   cfg.model,
	}
}

func (c *Client) Available() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Evaluate sends the request and returns the raw completion text.
func (c *Client) Evaluate(ctx context.Context, request domain.JudgmentRequest) (string, error) {
	if !c.Available() {
		return "", errors.ErrJudgeUnavailable
	}
	prompt, maxTokens := Render(request)
	framing := request.SystemFraming
	if framing == "" {
		framing = SystemFraming
	}
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: framing},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call judgment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: %d %s", errors.ErrJudgeStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.ErrEmptyCompletion
	}

	answer := strings.TrimSpace(completion.Choices[0].Message.Content)
	c.log.Debug("judgment received",
		"messages", len(request.Messages),
		"lang", detectLang(request.Messages),
		"latency_ms", time.Since(start).Milliseconds())
	return answer, nil
}

func detectLang(messages []string) string {
	info := whatlanggo.Detect(strings.Join(messages, "\n"))
	return info.Lang.Iso6391()
}

// retryPolicy leaves 429 to the caller, the batcher already spaces calls.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type leveledSlog struct {
	inner *slog.Logger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}
