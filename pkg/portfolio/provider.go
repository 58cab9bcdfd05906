package portfolio

import (
	"context"

	"github.com/shopspring/decimal"
)

// HoldingsProvider is a container integration that can enumerate containers
// and produce holdings, optionally by sub-account.
type HoldingsProvider interface {
	// Source returns the stable source name, e.g. "coinbase".
	Source() string

	// ListContainers enumerates the containers this provider currently
	// exposes. A provider with no linked containers returns an empty slice.
	ListContainers(ctx context.Context) ([]ContainerRef, error)

	// ListAccounts enumerates sub-accounts within a container. Providers
	// without sub-accounts return an empty slice.
	ListAccounts(ctx context.Context, containerID string) ([]AccountRef, error)

	// GetHoldings returns the raw holdings for one container.
	GetHoldings(ctx context.Context, containerID string) ([]Holding, error)
}

// PriceProvider resolves unit prices in the quote currency. Assets it cannot
// price are simply omitted from the result; it never fails for individual
// unknown assets.
type PriceProvider interface {
	GetPrices(ctx context.Context, assets []string, quote string) (map[string]decimal.Decimal, error)
}
