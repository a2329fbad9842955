package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.BackendAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 60 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the API root (required), e.g. http://localhost:8000.
	BaseURL string

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration

	// RateLimit is the sustained requests per second. Zero disables throttling.
	RateLimit float64

	// Burst is the limiter bucket size (default: 1).
	Burst int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the document chat backend.
type Client struct {
	client    *http.Client
	baseURL   string
	tokens    driven.TokenProvider
	limiter   *rate.Limiter
	requestID func() string
}

// NewClient creates a backend client.
func NewClient(cfg Config, tokens driven.TokenProvider) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("rest: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("rest: invalid base URL: %w", err)
	}
	if tokens == nil {
		return nil, fmt.Errorf("rest: token provider is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		tokens:    tokens,
		requestID: uuid.NewString,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// request describes one backend call.
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
}

// jsonRequest encodes payload as a JSON request body.
func jsonRequest(method, path string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("marshal request: %w", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// multipartRequest encodes file and extra fields as multipart/form-data.
func multipartRequest(path string, file domain.File, fields map[string]string) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return request{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return request{}, fmt.Errorf("read %s: %w", file.Name, err)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return request{}, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("close multipart body: %w", err)
	}

	return request{method: http.MethodPost, path: path, body: &buf, contentType: w.FormDataContentType()}, nil
}

// do performs an authenticated request and decodes a 2xx body into out.
// out may be nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body := r.body
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.requestID()
	req.Header.Set("X-Request-ID", reqID)
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("rest: %s %s -> %d in %s (request %s)",
		r.method, r.path, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
