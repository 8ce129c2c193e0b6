// Package remote is the storefront's HTTP client for the order service.
package remote

import (
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

	"github.com/sony/gobreaker/v2"
	"github.com/wichananm65/pet-shop-orders/internal/order"
)

// StatusError is a non-2xx answer from the order service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order service responded %d", e.Code)
	}
	return fmt.Sprintf("order service responded %d: %s", e.Code, e.Message)
}

// Options tunes the delivery breaker. Zero values pick the defaults.
type Options struct {
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	Logger          *slog.Logger
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
	breaker *gobreaker.CircuitBreaker[order.Summary]
	logger  *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid order service url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		// no client timeout; callers bound requests with their context
		httpClient = &http.Client{}
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{baseURL: u, http: httpClient, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker[order.Summary](gobreaker.Settings{
		Name:    "order-delivery",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// a rejected sale means the service is up
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSubmissionRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// WithBearer returns a copy of c that authenticates with token. The copy
// shares the delivery breaker.
func (c *Client) WithBearer(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(rel).String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON sends a JSON body (when in is non-nil) and decodes a 2xx response
// into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(raw))
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return readStatusError(res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func readStatusError(res *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Message == "" {
		payload.Message = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: res.StatusCode, Message: payload.Message}
}
