// Package static is a fixture pricing provider with a fixed price table.
// Useful for local development and as a deterministic stand-in in tests.
package static

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"networth-api/pkg/pricing"
)

func init() {
	pricing.RegisterBuilder("static", func(name string, cfg *pricing.ProviderConfig) (pricing.Provider, error) {
		prices := make(map[string]decimal.Decimal, len(cfg.Prices))
		for asset, raw := range cfg.Prices {
			price, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("static pricing: bad price %q for %s: %w", raw, asset, err)
			}
			prices[strings.ToUpper(strings.TrimSpace(asset))] = price
		}
		return New(prices), nil
	})
}

// Provider serves prices from an in-memory table.
type Provider struct {
	prices map[string]decimal.Decimal
}

// New builds a static provider from an asset -> price table.
func New(prices map[string]decimal.Decimal) *Provider {
	table := make(map[string]decimal.Decimal, len(prices))
	for asset, price := range prices {
		table[strings.ToUpper(strings.TrimSpace(asset))] = price
	}
	return &Provider{prices: table}
}

// ProviderID identifies this provider in configs and diagnostics.
func (p *Provider) ProviderID() string { return "static" }

// GetPrices returns the configured price for every known asset and omits the
// rest. The quote currency is ignored; the table is assumed to be quoted in
// the settlement currency.
func (p *Provider) GetPrices(_ context.Context, assets []string, _ string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(assets))
	for _, asset := range assets {
		asset = strings.ToUpper(strings.TrimSpace(asset))
		if price, ok := p.prices[asset]; ok {
			out[asset] = price
		}
	}
	return out, nil
}
