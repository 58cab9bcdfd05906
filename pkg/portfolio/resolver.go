package portfolio

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"
)

// Resolver maps asset symbols to unit prices in the settlement currency.
// The settlement currency and configured cash equivalents are always priced
// at exactly 1 without a provider lookup; provider failures degrade to
// unresolved assets and never abort the snapshot.
type Resolver struct {
	provider PriceProvider
	currency string
	cash     map[string]struct{}
}

// NewResolver builds a resolver for the given settlement currency. Cash
// equivalents (e.g. USDC for a USD settlement) are priced at 1 alongside the
// settlement currency itself.
func NewResolver(provider PriceProvider, currency string, cashEquivalents []string) *Resolver {
	cash := make(map[string]struct{}, len(cashEquivalents)+1)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	cash[currency] = struct{}{}
	for _, a := range cashEquivalents {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" {
			cash[a] = struct{}{}
		}
	}
	return &Resolver{provider: provider, currency: currency, cash: cash}
}

// Currency returns the settlement currency code.
func (r *Resolver) Currency() string { return r.currency }

// IsCash reports whether the asset is the settlement currency or a
// configured cash equivalent.
func (r *Resolver) IsCash(asset string) bool {
	_, ok := r.cash[strings.ToUpper(strings.TrimSpace(asset))]
	return ok
}

// Resolve returns a unit price for every asset it can price; unresolvable
// assets are omitted. The input may contain duplicates and mixed case.
func (r *Resolver) Resolve(ctx context.Context, assets []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(assets))

	lookup := make([]string, 0, len(assets))
	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		if r.IsCash(a) {
			prices[a] = decimal.NewFromInt(1)
			continue
		}
		lookup = append(lookup, a)
	}
	sort.Strings(lookup)

	if len(lookup) == 0 || r.provider == nil {
		return prices
	}

	resolved, err := r.provider.GetPrices(ctx, lookup, r.currency)
	if err != nil {
		// Degrade to unresolved for the affected assets; the aggregator
		// reports them as missing prices.
		logx.WithContext(ctx).Errorf("portfolio: price lookup failed for %d assets: %v", len(lookup), err)
		return prices
	}
	for asset, price := range resolved {
		asset = strings.ToUpper(strings.TrimSpace(asset))
		if _, wanted := seen[asset]; wanted {
			prices[asset] = price
		}
	}
	return prices
}
