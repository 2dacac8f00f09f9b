// Package client is the Go client for the SkillSwap API: authenticated
// requests, cached per-resource reads, session chat and catalog filtering.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"skillswap/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	BaseURL    string
	HTTP       *http.Client
	Tokens     TokenStore
	Cache      *QueryCache
	RetryDelay time.Duration
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.Cache = NewQueryCache(ttl) }
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.RetryDelay = d }
}

// New creates a client for baseURL, e.g. "http://localhost:8080/api".
// A nil store keeps tokens in memory.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		Tokens:     tokens,
		Cache:      NewQueryCache(30 * time.Second),
		RetryDelay: 300 * time.Millisecond,
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
	// raw is sent as is with contentType instead of a JSON body.
	raw         []byte
	contentType string
	// fallback is the message used when the server gives none.
	fallback string
	noAuth   bool
}

// do sends req and decodes the envelope's data into out. GETs are retried
// once on transport errors and 5xx responses; mutations never are. A 401 is
// retried once after refreshing the access token.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	attempts := 1
	if req.method == http.MethodGet {
		attempts = 2
	}

	var err error
	refreshed := false
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}

		err = c.send(ctx, req, out)
		if err == nil {
			return nil
		}
		if IsStatus(err, http.StatusUnauthorized) && !req.noAuth && !refreshed {
			refreshed = true
			if c.refresh(ctx) == nil {
				i--
				continue
			}
			return err
		}
		if !retryable(err) {
			return err
		}
		logger.Log.Debug("request failed", zap.String("method", req.method), zap.String("path", req.path), zap.Error(err))
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

func (c *Client) send(ctx context.Context, req request, out interface{}) error {
	u := c.BaseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := "application/json"
	switch {
	case req.raw != nil:
		body = bytes.NewReader(req.raw)
		contentType = req.contentType
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if !req.noAuth {
		if tokens, err := c.Tokens.Load(); err == nil && tokens.Access != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tokens.Access)
		}
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw, req.fallback)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// errorMessage picks the first non-empty of message, detail and error from
// an error payload.
func errorMessage(raw []byte, fallback string) string {
	if fallback == "" {
		fallback = "Request failed"
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fallback
	}
	for _, key := range []string{"message", "detail", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fallback
}

func (c *Client) refresh(ctx context.Context) error {
	tokens, err := c.Tokens.Load()
	if err != nil || tokens.Refresh == "" {
		return errors.New("no refresh token")
	}
	var pair Tokens
	err = c.send(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/refresh",
		body:     map[string]string{"refresh": tokens.Refresh},
		fallback: "Session expired",
		noAuth:   true,
	}, &pair)
	if err != nil {
		return err
	}
	if pair.Refresh == "" {
		pair.Refresh = tokens.Refresh
	}
	return c.Tokens.Save(pair)
}
