// Package httpx is the shared outbound HTTP transport: base-URL joining,
// JSON bodies, request correlation ids, and a client-side rate limiter so
// a misbehaving caller cannot hammer the backend.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
)

type Client struct {
	base    *url.URL
	hc      *http.Client
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// New builds a client for baseURL. requestsPerMin/burst feed the outbound
// rate limiter; zero values disable it.
func New(baseURL string, timeout time.Duration, requestsPerMin, burst int, log *zap.SugaredLogger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	var limiter *rate.Limiter
	if requestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), burst)
	}

	return &Client{
		base:    base,
		hc:      &http.Client{Timeout: timeout},
		limiter: limiter,
		log:     log,
	}, nil
}

// Do issues one request. body, when non-nil, is JSON-encoded. authHeader,
// when non-empty, is sent as the Authorization header. Connection-level
// failures come back wrapped in apierr.ErrUnreachable; HTTP status
// handling is the caller's job.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, authHeader string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	req.Header.Set("X-Request-ID", uuid.Must(uuid.NewV4()).String())

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.log.Warnw("request failed", "method", method, "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnreachable, err)
	}
	c.log.Debugw("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

// ReadBody drains and returns the response body as trimmed text.
func ReadBody(resp *http.Response) string {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Message extracts a human-readable message from an error response body.
// Backends answer with {"message": ...} or {"error": ...}; plain text
// bodies are returned as-is.
func Message(body string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		return ""
	}
	return body
}
