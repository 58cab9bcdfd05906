// Package coinbase lists balances from Coinbase Advanced Trade brokerage
// accounts using CDP API key authentication.
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
)

const (
	defaultBaseURL     = "https://api.coinbase.com"
	accountsPath       = "/api/v3/brokerage/accounts"
	defaultHTTPTimeout = 15 * time.Second
	accountsPageLimit  = 250
)

// Client coordinates signed requests against the Advanced Trade API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *Signer
}

// ClientOption customises the client.
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

// NewClient constructs an authenticated Advanced Trade client.
func NewClient(signer *Signer, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		signer:     signer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Balance is a currency amount as reported by Coinbase.
type Balance struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Account is one Coinbase brokerage account (one per currency).
type Account struct {
	UUID             string  `json:"uuid"`
	Name             string  `json:"name"`
	Currency         string  `json:"currency"`
	AvailableBalance Balance `json:"available_balance"`
	Hold             Balance `json:"hold"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
	HasNext  bool      `json:"has_next"`
	Cursor   string    `json:"cursor"`
}

// ListAccounts returns all brokerage accounts, following pagination.
// Backed by GET /api/v3/brokerage/accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	cursor := ""
	for {
		page, err := c.listAccountsPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, page.Accounts...)
		if !page.HasNext || page.Cursor == "" {
			return accounts, nil
		}
		cursor = page.Cursor
	}
}

func (c *Client) listAccountsPage(ctx context.Context, cursor string) (*accountsResponse, error) {
	query := url.Values{"limit": {fmt.Sprint(accountsPageLimit)}}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	endpoint := c.baseURL + accountsPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("coinbase: build accounts request: %w", err)
	}

	token, err := c.signer.Token(http.MethodGet, req.URL.Host, accountsPath)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coinbase: list accounts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coinbase: read accounts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coinbase: list accounts: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed accountsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("coinbase: decode accounts response: %w", err)
	}
	return &parsed, nil
}
