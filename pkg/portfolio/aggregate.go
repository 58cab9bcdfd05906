package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ContainerKey addresses one container across sources.
type ContainerKey struct {
	Source      string
	ContainerID string
}

// AccountKey addresses one sub-account within a container.
type AccountKey struct {
	Source      string
	ContainerID string
	AccountID   string
}

// Options configures one aggregation pass.
type Options struct {
	// Currency is the settlement currency code stamped on the snapshot.
	Currency string

	// Ignored lists asset symbols excluded from missing-price reporting.
	// Ignored assets still aggregate normally when they can be priced.
	Ignored map[string]struct{}

	// IsCash classifies an asset as settlement-currency cash. Nil means
	// nothing is cash.
	IsCash func(asset string) bool

	// Containers seeds the by-container view so linked containers with no
	// current holdings still appear with a zero total, and supplies
	// display names.
	Containers []ContainerRef

	// AccountNames supplies display names for the by-account view.
	AccountNames map[AccountKey]string
}

// Contributor is one (container, account) share of an asset rollup.
type Contributor struct {
	Source      string
	ContainerID string
	AccountID   string
	Quantity    decimal.Decimal
	MarketValue *decimal.Decimal
}

// AssetRollup sums one asset across all containers and accounts.
type AssetRollup struct {
	Asset        string
	Quantity     decimal.Decimal
	UnitPrice    *decimal.Decimal
	MarketValue  *decimal.Decimal
	Contributors []Contributor
}

// AccountRollup sums one sub-account, splitting settlement-currency cash
// from priced positions.
type AccountRollup struct {
	Source         string
	ContainerID    string
	AccountID      string
	Name           string
	CashValue      decimal.Decimal
	PositionsValue decimal.Decimal
	TotalValue     decimal.Decimal
}

// ContainerRollup sums one container across its accounts.
type ContainerRollup struct {
	Source      string
	ContainerID string
	Name        string
	TotalValue  decimal.Decimal
}

// MissingPrice reports an asset with a positive balance and no resolvable
// unit price, with enough context to chase it down.
type MissingPrice struct {
	Asset      string
	Quantity   decimal.Decimal
	Containers []string
}

type assetAcc struct {
	quantity     decimal.Decimal
	marketValue  decimal.Decimal
	hasPrice     bool
	unitPrice    *decimal.Decimal
	contributors []Contributor
}

type accountAcc struct {
	cash      decimal.Decimal
	positions decimal.Decimal
}

type missingAcc struct {
	quantity   decimal.Decimal
	containers map[string]struct{}
}

// Aggregate folds valued holdings into the snapshot views in one pass. The
// rollups are commutative sums, so the result is independent of input order;
// output slices are sorted for stable responses.
func Aggregate(valued []ValuedHolding, opts Options) *Snapshot {
	isCash := opts.IsCash
	if isCash == nil {
		isCash = func(string) bool { return false }
	}

	byAsset := make(map[string]*assetAcc)
	byAccount := make(map[AccountKey]*accountAcc)
	byContainer := make(map[ContainerKey]decimal.Decimal)
	missing := make(map[string]*missingAcc)

	cashTotal := decimal.Zero
	positionsTotal := decimal.Zero

	containerNames := make(map[ContainerKey]string, len(opts.Containers))
	for _, c := range opts.Containers {
		key := ContainerKey{Source: c.Source, ContainerID: c.ContainerID}
		containerNames[key] = c.Name
		if _, ok := byContainer[key]; !ok {
			byContainer[key] = decimal.Zero
		}
	}

	for _, v := range valued {
		asset := v.Asset

		acc, ok := byAsset[asset]
		if !ok {
			acc = &assetAcc{quantity: decimal.Zero, marketValue: decimal.Zero}
			byAsset[asset] = acc
		}
		acc.quantity = acc.quantity.Add(v.Quantity)
		if v.MarketValue != nil {
			acc.marketValue = acc.marketValue.Add(*v.MarketValue)
			acc.hasPrice = true
		}
		if acc.unitPrice == nil && v.UnitPrice != nil {
			acc.unitPrice = v.UnitPrice
		}
		acc.contributors = append(acc.contributors, Contributor{
			Source:      v.Source,
			ContainerID: v.ContainerID,
			AccountID:   v.AccountID,
			Quantity:    v.Quantity,
			MarketValue: v.MarketValue,
		})

		akey := AccountKey{Source: v.Source, ContainerID: v.ContainerID, AccountID: v.AccountID}
		aacc, ok := byAccount[akey]
		if !ok {
			aacc = &accountAcc{cash: decimal.Zero, positions: decimal.Zero}
			byAccount[akey] = aacc
		}
		if v.MarketValue != nil {
			if isCash(asset) {
				aacc.cash = aacc.cash.Add(*v.MarketValue)
				cashTotal = cashTotal.Add(*v.MarketValue)
			} else {
				aacc.positions = aacc.positions.Add(*v.MarketValue)
				positionsTotal = positionsTotal.Add(*v.MarketValue)
			}
		}

		if v.MarketValue == nil && v.Quantity.IsPositive() {
			if _, ignored := opts.Ignored[asset]; !ignored {
				m, ok := missing[asset]
				if !ok {
					m = &missingAcc{quantity: decimal.Zero, containers: make(map[string]struct{})}
					missing[asset] = m
				}
				m.quantity = m.quantity.Add(v.Quantity)
				m.containers[v.ContainerID] = struct{}{}
			}
		}
	}

	snapshot := &Snapshot{
		Currency:       opts.Currency,
		CashValue:      cashTotal,
		PositionsValue: positionsTotal,
		TotalValue:     cashTotal.Add(positionsTotal),
	}

	assets := make([]string, 0, len(byAsset))
	for asset := range byAsset {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	for _, asset := range assets {
		acc := byAsset[asset]
		sort.Slice(acc.contributors, func(i, j int) bool {
			a, b := acc.contributors[i], acc.contributors[j]
			if a.Source != b.Source {
				return a.Source < b.Source
			}
			if a.ContainerID != b.ContainerID {
				return a.ContainerID < b.ContainerID
			}
			return a.AccountID < b.AccountID
		})
		rollup := AssetRollup{
			Asset:        asset,
			Quantity:     acc.quantity,
			UnitPrice:    acc.unitPrice,
			Contributors: acc.contributors,
		}
		if acc.hasPrice {
			mv := acc.marketValue
			rollup.MarketValue = &mv
		}
		snapshot.ByAsset = append(snapshot.ByAsset, rollup)
	}

	accountKeys := make([]AccountKey, 0, len(byAccount))
	for key := range byAccount {
		accountKeys = append(accountKeys, key)
	}
	sort.Slice(accountKeys, func(i, j int) bool {
		a, b := accountKeys[i], accountKeys[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.ContainerID != b.ContainerID {
			return a.ContainerID < b.ContainerID
		}
		return a.AccountID < b.AccountID
	})
	for _, key := range accountKeys {
		acc := byAccount[key]
		total := acc.cash.Add(acc.positions)
		snapshot.ByAccount = append(snapshot.ByAccount, AccountRollup{
			Source:         key.Source,
			ContainerID:    key.ContainerID,
			AccountID:      key.AccountID,
			Name:           opts.AccountNames[key],
			CashValue:      acc.cash,
			PositionsValue: acc.positions,
			TotalValue:     total,
		})

		ckey := ContainerKey{Source: key.Source, ContainerID: key.ContainerID}
		existing, ok := byContainer[ckey]
		if !ok {
			existing = decimal.Zero
		}
		byContainer[ckey] = existing.Add(total)
	}

	containerKeys := make([]ContainerKey, 0, len(byContainer))
	for key := range byContainer {
		containerKeys = append(containerKeys, key)
	}
	sort.Slice(containerKeys, func(i, j int) bool {
		a, b := containerKeys[i], containerKeys[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.ContainerID < b.ContainerID
	})
	for _, key := range containerKeys {
		snapshot.ByContainer = append(snapshot.ByContainer, ContainerRollup{
			Source:      key.Source,
			ContainerID: key.ContainerID,
			Name:        containerNames[key],
			TotalValue:  byContainer[key],
		})
	}

	missingAssets := make([]string, 0, len(missing))
	for asset := range missing {
		missingAssets = append(missingAssets, asset)
	}
	sort.Strings(missingAssets)
	for _, asset := range missingAssets {
		m := missing[asset]
		containers := make([]string, 0, len(m.containers))
		for id := range m.containers {
			containers = append(containers, id)
		}
		sort.Strings(containers)
		snapshot.MissingPrices = append(snapshot.MissingPrices, MissingPrice{
			Asset:      asset,
			Quantity:   m.quantity,
			Containers: containers,
		})
	}

	return snapshot
}
