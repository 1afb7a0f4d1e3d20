// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/polychat/internal/storage"
)

// Configuration constants for the gateway.
const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default transport timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of extra attempts for idempotent
	// requests that fail with a 5xx or a transport error.
	DefaultMaxRetries = 2

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "polychat/1.0"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client is the gateway to the backend REST API.
// It is safe for concurrent use once configured.
type Client struct {
	baseURL    string
	kv         storage.KV
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration

	hookMu         sync.RWMutex
	onUnauthorized func()
}

// New creates a gateway for baseURL that reads the bearer token from kv.
func New(baseURL string, kv storage.KV) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		kv:      kv,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger:     zap.NewNop(),
		maxRetries: DefaultMaxRetries,
		retryDelay: retryBaseDelay,
	}
}

// WithTimeout sets the transport timeout. Zero disables it.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger used for request/response logging.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithMaxRetries sets the number of retries for idempotent requests.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	c.maxRetries = maxRetries
	return c
}

// WithRetryDelay sets the base delay for exponential backoff.
func (c *Client) WithRetryDelay(d time.Duration) *Client {
	c.retryDelay = d
	return c
}

// WithRateLimit throttles outgoing requests to perSecond with the given
// burst. A non-positive rate disables throttling.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// OnUnauthorized registers the hook run after a 401 has cleared the
// persisted session. It replaces any previous hook.
func (c *Client) OnUnauthorized(fn func()) *Client {
	c.hookMu.Lock()
	c.onUnauthorized = fn
	c.hookMu.Unlock()
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PIPELINE
// =============================================================================

// request describes one backend call.
type request struct {
	method string
	path   string
	body   any
	// public requests never carry the bearer token
	public bool
}

// do performs req and decodes a 2xx JSON body into out (which may be nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.calculateBackoff(attempt)):
			}
		}

		status, body, err := c.roundTrip(ctx, req, payload)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return err
			}
			continue
		}

		switch {
		case status == http.StatusUnauthorized:
			c.handleUnauthorized()
			return newHTTPError(status, body)
		case status >= 500:
			lastErr = newHTTPError(status, body)
			continue
		case status < 200 || status > 299:
			return newHTTPError(status, body)
		}

		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	if attempts > 1 {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return lastErr
}

// roundTrip sends one attempt and returns the status and limited body.
func (c *Client) roundTrip(ctx context.Context, req request, payload []byte) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if !req.public {
		if token := c.token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logRequest(httpReq)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)

	// SECURITY: Drop the credential as soon as the request is sent
	httpReq.Header.Del("Authorization")

	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logResponse(httpReq, resp, time.Since(start))

	data, err := readResponse(resp)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// token reads the current bearer token from storage on every call, so a
// login or logout elsewhere is picked up immediately.
func (c *Client) token() string {
	if c.kv == nil {
		return ""
	}
	tok, ok, err := c.kv.Get(storage.KeyAuthToken)
	if err != nil {
		c.logger.Warn("failed to read auth token", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// handleUnauthorized clears the persisted session and runs the hook.
// The hook runs even when clearing storage fails.
func (c *Client) handleUnauthorized() {
	if c.kv != nil {
		if err := c.kv.Delete(storage.KeyAuthToken, storage.KeyUser); err != nil {
			c.logger.Error("failed to clear session after 401", zap.Error(err))
		}
	}

	c.hookMu.RLock()
	hook := c.onUnauthorized
	c.hookMu.RUnlock()
	if hook != nil {
		hook()
	}
}

// calculateBackoff returns the delay before retry attempt n (1-based).
func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := c.retryDelay * time.Duration(1<<(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// =============================================================================
// LOGGING (without sensitive data)
// =============================================================================

// logRequest records the method and path. Headers may carry the token and
// bodies may carry passwords, so neither is logged.
func (c *Client) logRequest(req *http.Request) {
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path))
}

// logResponse records status and duration only.
func (c *Client) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	c.logger.Info("api response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))
}

// errMissingID is returned for calls that need a chat id.
var errMissingID = errors.New("missing chat id")
