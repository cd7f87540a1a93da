// Package gateway is the client for the board's REST contract. No other
// package talks to the network.
//
// Every failure is mapped onto the errs kinds: a missing response becomes
// NetworkError, 401/403 AuthError, any other non-2xx RemoteError, and a body
// that does not decode into the expected record (or fails its field checks)
// DecodeError. Calls are never retried.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crowdfix/internal/errs"
	"crowdfix/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// TokenSource supplies the bearer credential for authenticated calls.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	validate   *validator.Validate
	metrics    *metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit throttles outgoing calls to rps requests per second. Zero or
// less disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = newMetrics(reg) }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	// public calls (login, register, forgot-password) carry no bearer token
	public bool
}

// do performs one round trip and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, op string, r request) ([]byte, error) {
	start := time.Now()
	raw, err := c.roundTrip(ctx, op, r)
	c.metrics.observe(op, outcome(err), time.Since(start))
	return raw, err
}

func (c *Client) roundTrip(ctx context.Context, op string, r request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errs.Network(op, err)
		}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.public && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Warn("Request failed without response",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, errs.Network(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.Network(op, fmt.Errorf("failed to read response body: %w", err))
	}

	logger.Log.Debug("Request completed",
		zap.String("op", op),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.HTTP(op, resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(strings.TrimSuffix(errs.KindOf(err).String(), "Error"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// decodeOne unmarshals a single record and runs its struct validation.
func decodeOne[T any](c *Client, op string, raw []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, errs.Decode(op, fmt.Errorf("empty response body"))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errs.Decode(op, err)
	}
	if err := c.validate.Struct(out); err != nil {
		return out, errs.Decode(op, err)
	}
	return out, nil
}

// decodeList treats a JSON null as an empty list. One malformed element
// rejects the whole response.
func decodeList[T any](c *Client, op string, raw []byte) ([]T, error) {
	var out []T
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errs.Decode(op, fmt.Errorf("empty response body"))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errs.Decode(op, err)
	}
	for i := range out {
		if err := c.validate.Struct(out[i]); err != nil {
			return nil, errs.Decode(op, fmt.Errorf("element %d: %w", i, err))
		}
	}
	return out, nil
}

func pathID(id string) string {
	return url.PathEscape(id)
}
