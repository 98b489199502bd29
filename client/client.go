package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxBodyBytes = 10 << 20

// TokenSource supplies the bearer token for authenticated requests. An empty
// token with a nil error means the caller is logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Observer receives the outcome of every backend call.
type Observer interface {
	ObserveRequest(method string, status int, err error, elapsed time.Duration)
}

// Request describes one backend call. The zero value is an unauthenticated GET.
type Request struct {
	Method      string
	Headers     map[string]string
	Body        any
	RequireAuth bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	observer   Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokenSource returns a copy of c that reads bearer tokens from ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves path against the base URL. Absolute http(s) URLs are
// returned unchanged.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "?") {
		path = "/" + path
	}
	return c.baseURL + path
}

// RootURL resolves path against the origin of the base URL, dropping the
// base path, e.g. "/health" next to an ".../api" base.
func (c *Client) RootURL(path string) string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return c.URL(path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u.Scheme + "://" + u.Host + path
}

func validMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// Do sends one request to the backend and normalizes the outcome: a
// *Response on 2xx, a *StatusError on any other status, and a *NetworkError
// when the backend could not be reached.
func (c *Client) Do(ctx context.Context, path string, r Request) (*Response, error) {
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, r.Method)
	}

	var (
		body        io.Reader
		contentType string
	)
	if r.Body != nil && method != http.MethodGet {
		switch b := r.Body.(type) {
		case *Multipart:
			body = bytes.NewReader(b.Body)
			contentType = b.ContentType
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			body = bytes.NewReader(data)
			contentType = "application/json"
		}
	}

	target := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if r.RequireAuth && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			log.Printf("Token lookup failed, sending %s %s unauthenticated: %v", method, path, err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	authenticated := req.Header.Get("Authorization") != ""

	log.Printf("Making API request to: %s %s", method, target)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("API request %s %s failed: %v", method, target, err)
		c.observe(method, 0, err, start)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Printf("Error reading response body from %s %s: %v", method, target, err)
		c.observe(method, resp.StatusCode, err, start)
		return nil, &NetworkError{Err: err}
	}
	log.Printf("Response status: %d for %s %s", resp.StatusCode, method, target)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{
			Status:        resp.StatusCode,
			Message:       statusMessage(resp.StatusCode, data),
			Authenticated: authenticated,
		}
		log.Printf("API error response from %s %s: %s", method, target, serr.Message)
		c.observe(method, resp.StatusCode, serr, start)
		return nil, serr
	}

	c.observe(method, resp.StatusCode, nil, start)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) observe(method string, status int, err error, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, err, time.Since(start))
	}
}

// statusMessage prefers the backend's message or error field. Any other
// parseable JSON gets the generic status line; unparseable bodies are used as
// raw text when non-empty.
func statusMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))

	if json.Valid(body) {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err == nil {
			for _, key := range []string{"message", "error"} {
				if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
					return s
				}
			}
		}
		return fallback
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

// get decodes a JSON reply into v.
func (c *Client) get(ctx context.Context, path string, auth bool, v any) error {
	return c.call(ctx, path, Request{RequireAuth: auth}, v)
}

func (c *Client) call(ctx context.Context, path string, r Request, v any) error {
	resp, err := c.Do(ctx, path, r)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return resp.Decode(v)
}

// IsNetwork reports whether err means the backend was never reached.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
