package logic

import (
	"time"

	"github.com/shopspring/decimal"

	"networth-api/internal/types"
	"networth-api/pkg/portfolio"
)

func decPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toMissingPrices(missing []portfolio.MissingPrice) []types.MissingPrice {
	out := make([]types.MissingPrice, 0, len(missing))
	for _, m := range missing {
		out = append(out, types.MissingPrice{
			Asset:      m.Asset,
			Quantity:   m.Quantity.String(),
			Containers: m.Containers,
		})
	}
	return out
}

func toWarnings(warnings []portfolio.SourceWarning) []types.SourceWarning {
	out := make([]types.SourceWarning, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, types.SourceWarning{
			Source:      w.Source,
			ContainerID: w.ContainerID,
			Reason:      w.Reason,
		})
	}
	return out
}

func toContainerRollups(containers []portfolio.ContainerRollup) []types.ContainerRollup {
	out := make([]types.ContainerRollup, 0, len(containers))
	for _, c := range containers {
		out = append(out, types.ContainerRollup{
			Source:      c.Source,
			ContainerID: c.ContainerID,
			Name:        c.Name,
			TotalValue:  c.TotalValue.String(),
		})
	}
	return out
}

func toPortfolioResponse(s *portfolio.Snapshot) *types.PortfolioResponse {
	resp := &types.PortfolioResponse{
		SnapshotID:     s.ID.String(),
		AsOf:           s.AsOf.Format(time.RFC3339),
		Currency:       s.Currency,
		TotalValue:     s.TotalValue.String(),
		CashValue:      s.CashValue.String(),
		PositionsValue: s.PositionsValue.String(),
		ByContainer:    toContainerRollups(s.ByContainer),
		MissingPrices:  toMissingPrices(s.MissingPrices),
		Warnings:       toWarnings(s.Warnings),
	}

	resp.ByAsset = make([]types.AssetRollup, 0, len(s.ByAsset))
	for _, a := range s.ByAsset {
		contributors := make([]types.Contributor, 0, len(a.Contributors))
		for _, c := range a.Contributors {
			contributors = append(contributors, types.Contributor{
				Source:      c.Source,
				ContainerID: c.ContainerID,
				AccountID:   c.AccountID,
				Quantity:    c.Quantity.String(),
				MarketValue: decPtr(c.MarketValue),
			})
		}
		resp.ByAsset = append(resp.ByAsset, types.AssetRollup{
			Asset:        a.Asset,
			Quantity:     a.Quantity.String(),
			UnitPrice:    decPtr(a.UnitPrice),
			MarketValue:  decPtr(a.MarketValue),
			Contributors: contributors,
		})
	}

	resp.ByAccount = make([]types.AccountRollup, 0, len(s.ByAccount))
	for _, a := range s.ByAccount {
		resp.ByAccount = append(resp.ByAccount, types.AccountRollup{
			Source:         a.Source,
			ContainerID:    a.ContainerID,
			AccountID:      a.AccountID,
			Name:           a.Name,
			CashValue:      a.CashValue.String(),
			PositionsValue: a.PositionsValue.String(),
			TotalValue:     a.TotalValue.String(),
		})
	}

	return resp
}
