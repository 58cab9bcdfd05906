package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the complete aggregation result for one valuation request.
// It is built fresh per request and never persisted; cash_value plus
// positions_value always equals total_value exactly.
type Snapshot struct {
	ID       uuid.UUID
	AsOf     time.Time
	Currency string

	TotalValue     decimal.Decimal
	CashValue      decimal.Decimal
	PositionsValue decimal.Decimal

	ByAsset     []AssetRollup
	ByAccount   []AccountRollup
	ByContainer []ContainerRollup

	MissingPrices []MissingPrice

	// Warnings lists sources or containers that failed and were excluded;
	// a snapshot with warnings is partial, not broken.
	Warnings []SourceWarning
}

// HoldingLine is one asset line within a container holdings view.
type HoldingLine struct {
	Asset       string
	AccountID   string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	MarketValue *decimal.Decimal
}

// ContainerHoldings is the holdings drill-down for a single container,
// optionally filtered to one sub-account.
type ContainerHoldings struct {
	Source      string
	ContainerID string
	AccountID   string
	Name        string
	AsOf        time.Time
	Currency    string

	TotalValue    decimal.Decimal
	Holdings      []HoldingLine
	MissingPrices []string
}
