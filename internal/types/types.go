// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type NetWorthResponse struct {
	SnapshotID     string           `json:"snapshot_id"`
	AsOf           string           `json:"as_of"`
	Currency       string           `json:"currency"`
	TotalValue     string           `json:"total_value"`
	CashValue      string           `json:"cash_value"`
	PositionsValue string           `json:"positions_value"`
	MissingPrices  []MissingPrice   `json:"missing_prices"`
	Warnings       []SourceWarning  `json:"warnings,omitempty"`
}

type PortfolioResponse struct {
	SnapshotID     string            `json:"snapshot_id"`
	AsOf           string            `json:"as_of"`
	Currency       string            `json:"currency"`
	TotalValue     string            `json:"total_value"`
	CashValue      string            `json:"cash_value"`
	PositionsValue string            `json:"positions_value"`
	ByAsset        []AssetRollup     `json:"by_asset"`
	ByAccount      []AccountRollup   `json:"by_account"`
	ByContainer    []ContainerRollup `json:"by_container"`
	MissingPrices  []MissingPrice    `json:"missing_prices"`
	Warnings       []SourceWarning   `json:"warnings,omitempty"`
}

type AssetRollup struct {
	Asset        string        `json:"asset"`
	Quantity     string        `json:"quantity"`
	UnitPrice    *string       `json:"unit_price"`
	MarketValue  *string       `json:"market_value"`
	Contributors []Contributor `json:"contributors"`
}

type Contributor struct {
	Source      string  `json:"source"`
	ContainerID string  `json:"container_id"`
	AccountID   string  `json:"account_id"`
	Quantity    string  `json:"quantity"`
	MarketValue *string `json:"market_value"`
}

type AccountRollup struct {
	Source         string `json:"source"`
	ContainerID    string `json:"container_id"`
	AccountID      string `json:"account_id"`
	Name           string `json:"name,omitempty"`
	CashValue      string `json:"cash_value"`
	PositionsValue string `json:"positions_value"`
	TotalValue     string `json:"total_value"`
}

type ContainerRollup struct {
	Source      string `json:"source"`
	ContainerID string `json:"container_id"`
	Name        string `json:"name,omitempty"`
	TotalValue  string `json:"total_value"`
}

type MissingPrice struct {
	Asset      string   `json:"asset"`
	Quantity   string   `json:"quantity"`
	Containers []string `json:"containers"`
}

type SourceWarning struct {
	Source      string `json:"source"`
	ContainerID string `json:"container_id,omitempty"`
	Reason      string `json:"reason"`
}

type ContainersResponse struct {
	Containers []ContainerRollup `json:"containers"`
	Warnings   []SourceWarning   `json:"warnings,omitempty"`
}

type ContainerHoldingsRequest struct {
	Source      string `path:"source"`
	ContainerID string `path:"container"`
	AccountID   string `form:"account_id,optional"`
}

type HoldingLine struct {
	Asset       string  `json:"asset"`
	AccountID   string  `json:"account_id"`
	Quantity    string  `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
	MarketValue *string `json:"market_value"`
}

type ContainerHoldingsResponse struct {
	Source        string        `json:"source"`
	ContainerID   string        `json:"container_id"`
	AccountID     string        `json:"account_id,omitempty"`
	Name          string        `json:"name,omitempty"`
	AsOf          string        `json:"as_of"`
	Currency      string        `json:"currency"`
	TotalValue    string        `json:"total_value"`
	Holdings      []HoldingLine `json:"holdings"`
	MissingPrices []string      `json:"missing_prices"`
}

type AccountsRequest struct {
	Source      string `form:"source"`
	ContainerID string `form:"container_id,optional"`
}

type AccountRef struct {
	Source      string `json:"source"`
	ContainerID string `json:"container_id"`
	AccountID   string `json:"account_id"`
	Name        string `json:"name,omitempty"`
}

type AccountsResponse struct {
	Accounts []AccountRef `json:"accounts"`
}

type PlaidLinkTokenRequest struct {
	UserID string `json:"user_id,optional"`
}

type PlaidLinkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type PlaidExchangeRequest struct {
	PublicToken     string `json:"public_token"`
	ContainerID     string `json:"container_id"`
	InstitutionName string `json:"institution_name,optional"`
}

type PlaidExchangeResponse struct {
	ContainerID string `json:"container_id"`
	ItemID      string `json:"item_id"`
}

type PlaidItemDeleteRequest struct {
	ContainerID string `path:"container"`
}

type PlaidItemDeleteResponse struct {
	ContainerID string `json:"container_id"`
	Removed     bool   `json:"removed"`
}
