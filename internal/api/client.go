// Package api is the storefront's single egress to the store backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/stride/internal/domain"
)

// TokenSource supplies the bearer token for outgoing calls.
// *session.Store satisfies it.
type TokenSource interface {
	Token() string
}

type tokenKey struct{}

// ContextWithToken attaches the visitor's token source to ctx. Every call
// made with the returned context carries its token.
func ContextWithToken(ctx context.Context, ts TokenSource) context.Context {
	return context.WithValue(ctx, tokenKey{}, ts)
}

func tokenFrom(ctx context.Context) string {
	if ts, ok := ctx.Value(tokenKey{}).(TokenSource); ok && ts != nil {
		return ts.Token()
	}
	return ""
}

type requestIDKey struct{}

// ContextWithRequestID makes every call made with ctx forward id as
// X-Request-ID, so backend logs can be joined with the gateway's.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Observer is told about every backend call.
type Observer interface {
	ObserveCall(group, op, outcome string, elapsed time.Duration)
}

type Option func(*Client)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks to the store backend. Calls are grouped by resource.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *slog.Logger

	Products      *ProductsAPI
	Auth          *AuthAPI
	Orders        *OrdersAPI
	Customers     *CustomersAPI
	AdminProducts *AdminProductsAPI
	Stats         *StatsAPI
}

// New creates a client for the backend rooted at baseURL
// (e.g. https://store-back-gold.vercel.app/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Products = &ProductsAPI{c: c}
	c.Auth = &AuthAPI{c: c}
	c.Orders = &OrdersAPI{c: c}
	c.Customers = &CustomersAPI{c: c}
	c.AdminProducts = &AdminProductsAPI{c: c}
	c.Stats = &StatsAPI{c: c}
	return c
}

// call describes one request to the backend.
type call struct {
	group       string
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) getJSON(ctx context.Context, group, op, path string, query url.Values, out any) error {
	return c.do(ctx, call{group: group, op: op, method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, group, op, method, path string, in, out any) error {
	cl := call{group: group, op: op, method: method, path: path}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return domain.Internal(err, op, "failed to encode request")
		}
		cl.body = bytes.NewReader(payload)
		cl.contentType = "application/json"
	}
	return c.do(ctx, cl, out)
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	op := "api." + cl.group + "." + cl.op
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(cl.group, cl.op, outcome(err), time.Since(start))
		}
	}()

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, cl.body)
	if err != nil {
		return domain.Internal(err, op, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WarnContext(ctx, "backend request failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return &domain.Error{Code: domain.EUNAVAILABLE, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.Error{Code: domain.EUNAVAILABLE, Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(op, resp.StatusCode, body)
		c.logger.DebugContext(ctx, "backend returned error",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("code", domain.ErrorCode(apiErr)),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.Error{Code: domain.EUNAVAILABLE, Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return domain.ErrorCode(err)
	}
}
