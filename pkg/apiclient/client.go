// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apiclient implements the concrete core.APIClient an Agent
// drives actions through: an HTTP client with retry, backoff and
// rate-limit-header handling, adapted from the general-purpose HTTP
// client of the hector project (pkg/httpclient).
//
// Unlike that client, apiclient.Client never returns a Go error from
// its request methods — every outcome, including a transport failure
// after retries are exhausted, is folded into a *core.ActionResult, so
// an Action can never forget to handle a transport error (spec §6.1).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/namanag97/venomqa-sub007/pkg/core"
)

// RetryStrategy defines how to handle a non-2xx response.
type RetryStrategy int

const (
	// NoRetry indicates no retry should be attempted.
	NoRetry RetryStrategy = iota
	// ConservativeRetry attempts up to 2 retries with fixed delays.
	ConservativeRetry
	// SmartRetry uses rate limit headers and exponential backoff.
	SmartRetry
)

// RateLimitInfo is extracted from response headers to drive backoff.
type RateLimitInfo struct {
	RetryAfter        time.Duration
	ResetUnix         int64
	RequestsRemaining int
}

// HeaderParser extracts rate limit info from response headers.
type HeaderParser func(http.Header) RateLimitInfo

// StrategyFunc determines the retry strategy based on status code.
type StrategyFunc func(int) RetryStrategy

// Client is the concrete core.APIClient venomqa ships: a base URL, an
// *http.Client, and a retry/backoff policy layered on top.
type Client struct {
	baseURL      string
	http         *http.Client
	maxRetries   int
	baseDelay    time.Duration
	maxDelay     time.Duration
	headerParser HeaderParser
	strategyFunc StrategyFunc
	headers      map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom *http.Client (e.g. to carry a custom
// transport or timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithMaxRetries sets the maximum number of retries (default 3).
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Client) { c.maxDelay = d }
}

// WithHeaderParser overrides how rate-limit headers are read.
func WithHeaderParser(p HeaderParser) Option {
	return func(c *Client) { c.headerParser = p }
}

// WithRetryStrategy overrides which statuses are retried and how.
func WithRetryStrategy(f StrategyFunc) Option {
	return func(c *Client) { c.strategyFunc = f }
}

// WithDefaultHeaders sets headers sent on every request (merged under
// any per-call WithHeaders).
func WithDefaultHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// New builds a Client against baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: 30 * time.Second},
		maxRetries:   3,
		baseDelay:    500 * time.Millisecond,
		maxDelay:     10 * time.Second,
		strategyFunc: DefaultStrategy,
		headerParser: ParseStandardHeaders,
		headers:      map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultStrategy retries 429/503 with rate-limit awareness and
// 408/500/502/504 with fixed backoff; everything else is terminal.
func DefaultStrategy(statusCode int) RetryStrategy {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return SmartRetry
	case http.StatusRequestTimeout, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusGatewayTimeout:
		return ConservativeRetry
	default:
		return NoRetry
	}
}

// ParseStandardHeaders reads the generic Retry-After and X-RateLimit-*
// headers most APIs under test expose, without assuming any one
// vendor's naming.
func ParseStandardHeaders(h http.Header) RateLimitInfo {
	var info RateLimitInfo
	if ra := h.Get("Retry-After"); ra != "" {
		if secs, err := time.ParseDuration(ra + "s"); err == nil {
			info.RetryAfter = secs
		}
	}
	if remaining := h.Get("X-RateLimit-Remaining"); remaining != "" {
		fmt.Sscanf(remaining, "%d", &info.RequestsRemaining)
	}
	if reset := h.Get("X-RateLimit-Reset"); reset != "" {
		fmt.Sscanf(reset, "%d", &info.ResetUnix)
	}
	return info
}

func (c *Client) Get(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return c.do(ctx, http.MethodGet, path, opts...)
}
func (c *Client) Post(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return c.do(ctx, http.MethodPost, path, opts...)
}
func (c *Client) Put(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return c.do(ctx, http.MethodPut, path, opts...)
}
func (c *Client) Patch(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return c.do(ctx, http.MethodPatch, path, opts...)
}
func (c *Client) Delete(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return c.do(ctx, http.MethodDelete, path, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, opts ...core.RequestOption) *core.ActionResult {
	ro := core.ApplyRequestOptions(opts...)

	fullURL, err := c.buildURL(path, ro.Params)
	if err != nil {
		return core.FromError(&core.Request{Method: method, URL: path}, err.Error())
	}

	var bodyBytes []byte
	var requestBody any
	switch {
	case ro.JSON != nil:
		bodyBytes, err = json.Marshal(ro.JSON)
		if err != nil {
			return core.FromError(&core.Request{Method: method, URL: fullURL}, fmt.Sprintf("encode request body: %v", err))
		}
		requestBody = ro.JSON
	case ro.Data != nil:
		bodyBytes = ro.Data
	}

	req := &core.Request{Method: method, URL: fullURL, Headers: mergedHeaders(c.headers, ro.Headers), Body: requestBody}

	resp, durationMS, err := c.doWithRetry(ctx, method, fullURL, bodyBytes, req.Headers)
	if err != nil {
		return core.FromError(req, err.Error())
	}
	return core.FromResponse(req, resp, durationMS)
}

func (c *Client) buildURL(path string, params map[string]string) (string, error) {
	full := c.baseURL + ensureLeadingSlash(path)
	if len(params) == 0 {
		return full, nil
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

func mergedHeaders(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// doWithRetry executes one logical request, retrying on a retryable
// status per c.strategyFunc, and returns the parsed *core.Response.
func (c *Client) doWithRetry(ctx context.Context, method, fullURL string, body []byte, headers map[string]string) (*core.Response, float64, error) {
	started := time.Now()

	for attempt := 0; ; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, elapsedMS(started), err
		}
		if len(body) > 0 {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}

		httpResp, err := c.http.Do(httpReq)
		if err != nil {
			if attempt >= c.maxRetries {
				return nil, elapsedMS(started), err
			}
			c.sleep(c.calculateDelay(ConservativeRetry, attempt, RateLimitInfo{}))
			continue
		}

		response, parseErr := parseResponse(httpResp)
		if parseErr != nil {
			return nil, elapsedMS(started), parseErr
		}

		strategy := c.strategyFunc(response.Status)
		if strategy == NoRetry || attempt >= c.maxRetries {
			return response, elapsedMS(started), nil
		}

		info := c.headerParser(httpResp.Header)
		delay := c.calculateDelay(strategy, attempt, info)
		if delay <= 0 {
			return response, elapsedMS(started), nil
		}
		slog.Debug("apiclient: retrying", "method", method, "url", fullURL, "status", response.Status, "attempt", attempt+1, "delay", delay)
		c.sleep(delay)
	}
}

func (c *Client) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (c *Client) calculateDelay(strategy RetryStrategy, attempt int, info RateLimitInfo) time.Duration {
	switch strategy {
	case SmartRetry:
		if info.RetryAfter > 0 {
			return min(info.RetryAfter, c.maxDelay)
		}
		if info.ResetUnix > 0 {
			if d := time.Until(time.Unix(info.ResetUnix, 0)); d > 0 {
				return min(d, c.maxDelay)
			}
		}
		delay := time.Duration(math.Pow(2, float64(attempt))) * c.baseDelay
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.1)
		return min(delay+jitter, c.maxDelay)
	case ConservativeRetry:
		if attempt >= 2 {
			return 0
		}
		return time.Duration(attempt+1) * c.baseDelay
	default:
		return 0
	}
}

func elapsedMS(started time.Time) float64 {
	return float64(time.Since(started).Microseconds()) / 1000.0
}

func parseResponse(resp *http.Response) (*core.Response, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	var body any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}

	return &core.Response{Status: resp.StatusCode, Headers: headers, Body: body}, nil
}
