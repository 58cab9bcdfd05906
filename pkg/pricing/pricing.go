// Package pricing selects and configures the pricing provider that backs the
// portfolio price resolver. Providers register themselves by type name and
// are instantiated from a YAML config file.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider resolves unit prices for asset symbols in a quote currency.
// Unknown assets are omitted from the result rather than reported as errors;
// a non-nil error means the provider itself is unavailable.
type Provider interface {
	// ProviderID returns the stable provider identifier, e.g. "coinbase".
	ProviderID() string

	GetPrices(ctx context.Context, assets []string, quote string) (map[string]decimal.Decimal, error)
}
