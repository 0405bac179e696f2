package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://www.omdbapi.com"

// ErrNotFound is returned when a title or identifier has no match in OMDb.
var ErrNotFound = errors.New("movie not found")

// Client is an OMDb API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new OMDb client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a title search and returns matching hits.
// Returns ErrNotFound when OMDb reports no matches.
func (c *Client) Search(ctx context.Context, title string) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("s", title)

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Response != "True" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	return resp.Search, nil
}

// GetMovie fetches a full movie record by IMDb identifier.
// Returns ErrNotFound when the identifier has no match.
func (c *Client) GetMovie(ctx context.Context, imdbID string) (*Detail, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "short")

	var detail Detail
	if err := c.get(ctx, params, &detail); err != nil {
		return nil, err
	}
	if detail.Response != "True" || detail.ImdbID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, imdbID)
	}
	return &detail, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OMDb API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
