// Package coinbase prices assets via Coinbase Advanced Trade public market
// data. The ticker endpoints need no authentication.
package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL     = "https://api.coinbase.com"
	defaultHTTPTimeout = 10 * time.Second
)

// Client fetches public market data from Coinbase.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customises the Coinbase market data client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (primarily for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithHTTPTimeout sets the request timeout on the default HTTP client.
func WithHTTPTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient constructs a public market data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type marketTrade struct {
	Price string `json:"price"`
}

type marketTradesResponse struct {
	Trades  []marketTrade `json:"trades"`
	BestBid string        `json:"best_bid"`
	BestAsk string        `json:"best_ask"`
}

// GetSpotPrice returns the last trade price for a product such as BTC-USD.
// Backed by GET /api/v3/brokerage/market/products/{product_id}/ticker.
func (c *Client) GetSpotPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/api/v3/brokerage/market/products/%s/ticker?limit=1",
		c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coinbase: build ticker request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coinbase: ticker %s: %w", productID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coinbase: read ticker %s: %w", productID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("coinbase: ticker %s: status %d: %s",
			productID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed marketTradesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("coinbase: decode ticker %s: %w", productID, err)
	}

	raw := ""
	if len(parsed.Trades) > 0 {
		raw = parsed.Trades[0].Price
	}
	if raw == "" {
		raw = parsed.BestBid
	}
	if raw == "" {
		return decimal.Zero, fmt.Errorf("coinbase: ticker %s: no price in response", productID)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coinbase: ticker %s: bad price %q: %w", productID, raw, err)
	}
	return price, nil
}
