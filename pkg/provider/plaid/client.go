// Package plaid links brokerage accounts through the Plaid aggregator and
// reads investment holdings from them.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://production.plaid.com"
	defaultHTTPTimeout = 30 * time.Second
)

// Client is a minimal Plaid API client covering link flows and investment
// holdings.
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

// ClientOption customises the client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different Plaid environment
// (sandbox, development) or a test server.
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

// NewClient builds a Plaid client with the given credentials.
func NewClient(clientID, secret string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		clientID:   clientID,
		secret:     secret,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateLinkToken starts a Link session for the given end user and returns
// the link token the frontend hands to Plaid Link.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	var resp struct {
		LinkToken string `json:"link_token"`
	}
	err := c.post(ctx, "/link/token/create", map[string]any{
		"client_name":   "networth-api",
		"language":      "en",
		"country_codes": []string{"US"},
		"user":          map[string]string{"client_user_id": userID},
		"products":      []string{"investments"},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.LinkToken == "" {
		return "", fmt.Errorf("plaid: link token missing from response")
	}
	return resp.LinkToken, nil
}

// ExchangeResult is the outcome of a public token exchange.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// ExchangePublicToken trades the public token produced by Plaid Link for a
// long-lived access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	var resp ExchangeResult
	err := c.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("plaid: access token missing from response")
	}
	return &resp, nil
}

// RemoveItem invalidates an access token on Plaid's side.
func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	var resp struct {
		RequestID string `json:"request_id"`
	}
	return c.post(ctx, "/item/remove", map[string]any{
		"access_token": accessToken,
	}, &resp)
}

// Security describes an instrument referenced by holdings.
type Security struct {
	SecurityID   string   `json:"security_id"`
	TickerSymbol string   `json:"ticker_symbol"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	ClosePrice   *float64 `json:"close_price"`
}

// AccountInfo is a brokerage account within an item.
type AccountInfo struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	OfficialName string `json:"official_name"`
}

// InvestmentHolding is one position in one account.
type InvestmentHolding struct {
	AccountID        string   `json:"account_id"`
	SecurityID       string   `json:"security_id"`
	Quantity         float64  `json:"quantity"`
	InstitutionPrice *float64 `json:"institution_price"`
	InstitutionValue *float64 `json:"institution_value"`
	ISOCurrencyCode  string   `json:"iso_currency_code"`
}

// HoldingsResponse is the /investments/holdings/get payload.
type HoldingsResponse struct {
	Accounts   []AccountInfo       `json:"accounts"`
	Holdings   []InvestmentHolding `json:"holdings"`
	Securities []Security          `json:"securities"`
}

// GetInvestmentHoldings reads all investment positions for an item.
func (c *Client) GetInvestmentHoldings(ctx context.Context, accessToken string) (*HoldingsResponse, error) {
	var resp HoldingsResponse
	err := c.post(ctx, "/investments/holdings/get", map[string]any{
		"access_token": accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any, out any) error {
	payload["client_id"] = c.clientID
	payload["secret"] = c.secret

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("plaid: marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("plaid: build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("plaid: %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("plaid: read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("plaid: %s: status %d: %s", path, resp.StatusCode, plaidErrorSummary(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("plaid: decode %s response: %w", path, err)
	}
	return nil
}

// plaidErrorSummary extracts the error code and message from an error body,
// falling back to the raw payload.
func plaidErrorSummary(body []byte) string {
	var parsed struct {
		ErrorCode    string `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrorCode != "" {
		return parsed.ErrorCode + ": " + parsed.ErrorMessage
	}
	return strings.TrimSpace(string(body))
}
