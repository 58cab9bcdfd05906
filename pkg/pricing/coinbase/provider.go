package coinbase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/pkg/pricing"
)

func init() {
	pricing.RegisterBuilder("coinbase", func(name string, cfg *pricing.ProviderConfig) (pricing.Provider, error) {
		opts := []ClientOption{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPTimeout(cfg.HTTPTimeout))
		}
		return NewProvider(NewClient(opts...), WithOverrides(cfg.Overrides)), nil
	})
}

// Provider implements pricing.Provider on top of the public ticker client.
type Provider struct {
	client    *Client
	overrides map[string]string
}

// ProviderOption customises the provider.
type ProviderOption func(*Provider)

// WithOverrides maps asset symbols to the symbol actually quoted upstream
// (e.g. ETH2 -> ETH). Keys and values are case-insensitive.
func WithOverrides(overrides map[string]string) ProviderOption {
	return func(p *Provider) {
		for from, to := range overrides {
			from = strings.ToUpper(strings.TrimSpace(from))
			to = strings.ToUpper(strings.TrimSpace(to))
			if from != "" && to != "" {
				p.overrides[from] = to
			}
		}
	}
}

// NewProvider wraps a market data client as a pricing provider.
func NewProvider(client *Client, opts ...ProviderOption) *Provider {
	p := &Provider{client: client, overrides: make(map[string]string)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProviderID identifies this provider in configs and diagnostics.
func (p *Provider) ProviderID() string { return "coinbase" }

// GetPrices looks up the last trade price for each asset against the quote
// currency. Assets without an upstream product degrade to omissions; only
// the whole provider being unreachable would matter, and even then partial
// results are returned for the assets already priced.
func (p *Provider) GetPrices(ctx context.Context, assets []string, quote string) (map[string]decimal.Decimal, error) {
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if quote == "" {
		quote = "USD"
	}

	// Resolve overrides first so one upstream lookup can serve several
	// asset symbols.
	symbolFor := make(map[string]string, len(assets))
	for _, asset := range assets {
		asset = strings.ToUpper(strings.TrimSpace(asset))
		if asset == "" {
			continue
		}
		symbol := asset
		if override, ok := p.overrides[asset]; ok {
			symbol = override
		}
		symbolFor[asset] = symbol
	}

	quoted := make(map[string]decimal.Decimal, len(symbolFor))
	out := make(map[string]decimal.Decimal, len(symbolFor))
	for asset, symbol := range symbolFor {
		price, ok := quoted[symbol]
		if !ok {
			var err error
			price, err = p.client.GetSpotPrice(ctx, symbol+"-"+quote)
			if err != nil {
				// Per-asset failures leave the asset unpriced.
				logx.WithContext(ctx).Errorf("coinbase pricing: %v", err)
				continue
			}
			quoted[symbol] = price
		}
		out[asset] = price
	}
	return out, nil
}
