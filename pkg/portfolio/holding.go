// Package portfolio implements the valuation and rollup engine: raw holdings
// from source providers are priced in a single settlement currency and folded
// into by-asset, by-account and by-container views.
package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ContainerRef identifies one external source of holdings, e.g. an exchange
// account, a cold-storage device or a brokerage integration.
type ContainerRef struct {
	Source      string
	ContainerID string
	Name        string
}

// AccountRef identifies a sub-account within a container.
type AccountRef struct {
	Source      string
	ContainerID string
	AccountID   string
	Name        string
}

// Holding is one quantity of one asset at one container/account. Providers
// produce holdings; the engine never mutates them after Normalize.
type Holding struct {
	Source      string
	ContainerID string
	AccountID   string
	Asset       string
	Quantity    decimal.Decimal

	// UnitPriceHint carries a price the source itself reported (brokerages
	// quote their own positions). Valuation falls back to it when the price
	// resolver has no quote for the asset.
	UnitPriceHint *decimal.Decimal
}

// Normalize returns the holding in canonical form: the asset symbol is
// trimmed and uppercased, and the account id defaults to the container id
// for sources without sub-accounts. Applied once at the model boundary so
// downstream rollups see a single addressing scheme.
func (h Holding) Normalize() Holding {
	h.Asset = strings.ToUpper(strings.TrimSpace(h.Asset))
	if strings.TrimSpace(h.AccountID) == "" {
		h.AccountID = h.ContainerID
	}
	return h
}

// Validate reports whether the holding is well formed. A provider returning
// an empty asset or a negative quantity is defective; the caller excludes
// that container from the snapshot rather than poisoning the whole response.
func (h Holding) Validate() error {
	if strings.TrimSpace(h.Asset) == "" {
		return fmt.Errorf("%w: empty asset (container %s)", ErrInvalidHolding, h.ContainerID)
	}
	if strings.TrimSpace(h.ContainerID) == "" {
		return fmt.Errorf("%w: empty container id (asset %s)", ErrInvalidHolding, h.Asset)
	}
	if h.Quantity.IsNegative() {
		return fmt.Errorf("%w: negative quantity %s for %s (container %s)",
			ErrInvalidHolding, h.Quantity, h.Asset, h.ContainerID)
	}
	return nil
}
