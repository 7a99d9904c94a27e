// Package stock looks up listed securities by code or name through the remote stock API.
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrEmptyQuery indicates a lookup without a code or name.
	ErrEmptyQuery = errors.New("stock query is required")

	// ErrNotFound indicates the remote API has no stock for the query.
	ErrNotFound = errors.New("stock not found")

	// ErrUnavailable indicates the remote API is failing and lookups are short-circuited.
	ErrUnavailable = errors.New("stock lookup unavailable")
)

// Lookuper resolves a stock code or name into a Stock.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (Stock, error)
}

// Client calls the stock lookup API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup fetches GET {baseURL}/stock/{query}.
//
// Returns:
//   - Stock: the decoded descriptor
//   - error: ErrEmptyQuery, ErrNotFound on 404, or a wrapped transport/decoding error
func (c *Client) Lookup(ctx context.Context, query string) (Stock, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Stock{}, ErrEmptyQuery
	}

	endpoint := fmt.Sprintf("%s/stock/%s", c.baseURL, url.PathEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Stock{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shoken-receipts-backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Stock{}, fmt.Errorf("failed to query stock api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Stock{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return Stock{}, fmt.Errorf("%w: %s", ErrNotFound, query)
	}
	if resp.StatusCode != http.StatusOK {
		return Stock{}, fmt.Errorf("stock api returned status %d: %s", resp.StatusCode, string(body))
	}

	var s Stock
	if err := json.Unmarshal(body, &s); err != nil {
		return Stock{}, fmt.Errorf("failed to decode stock response: %w", err)
	}
	return s, nil
}
