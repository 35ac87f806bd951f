package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	DefaultSearchURL = "https://api.vam.ac.uk/v1/museumobject/search"

	// DefaultLimit caps a search; there is no pagination beyond it.
	DefaultLimit = 45
)

// StatusError is returned for any search response other than 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// Client queries the collection search API.
type Client struct {
	searchURL string
	limit     int
	http      *http.Client
	limiter   *rate.Limiter
}

type Option func(*Client)

// WithSearchURL overrides the search endpoint.
func WithSearchURL(u string) Option {
	return func(c *Client) { c.searchURL = u }
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRate paces outgoing searches to perSecond requests. Zero disables pacing.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLimit sets the result cap. Non-positive values keep DefaultLimit.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		searchURL: DefaultSearchURL,
		limit:     DefaultLimit,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the records matching query, in API order.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("pad", "1")
	q.Set("images", "1")
	q.Set("limit", strconv.Itoa(c.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := make([]Record, 0, len(body.Records))
	for _, r := range body.Records {
		records = append(records, r.Fields)
	}
	return records, nil
}
