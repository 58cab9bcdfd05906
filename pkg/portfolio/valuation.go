package portfolio

import "github.com/shopspring/decimal"

// ValuedHolding is a holding plus its resolved price and market value.
// UnitPrice and MarketValue are nil when the asset could not be priced;
// a zero-quantity holding of an unpriceable asset still carries a zero
// market value since it cannot contribute anything.
type ValuedHolding struct {
	Holding
	UnitPrice   *decimal.Decimal
	MarketValue *decimal.Decimal
}

// Priced reports whether the holding carries a market value.
func (v ValuedHolding) Priced() bool { return v.MarketValue != nil }

// Value combines holdings with resolved unit prices into valued line items.
// It is a pure function of its inputs: identical holdings and prices always
// produce identical output, in input order.
func Value(holdings []Holding, prices map[string]decimal.Decimal) []ValuedHolding {
	out := make([]ValuedHolding, 0, len(holdings))
	for _, h := range holdings {
		h = h.Normalize()
		v := ValuedHolding{Holding: h}
		if price, ok := prices[h.Asset]; ok {
			p := price
			mv := h.Quantity.Mul(price)
			v.UnitPrice, v.MarketValue = &p, &mv
		} else if h.UnitPriceHint != nil && !h.UnitPriceHint.IsNegative() {
			p := *h.UnitPriceHint
			mv := h.Quantity.Mul(p)
			v.UnitPrice, v.MarketValue = &p, &mv
		} else if h.Quantity.IsZero() {
			zero := decimal.Zero
			v.MarketValue = &zero
		}
		out = append(out, v)
	}
	return out
}
