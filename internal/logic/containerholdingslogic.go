package logic

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

type ContainerHoldingsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewContainerHoldingsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ContainerHoldingsLogic {
	return &ContainerHoldingsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ContainerHoldings values a single container's holdings, optionally scoped
// to one sub-account.
func (l *ContainerHoldingsLogic) ContainerHoldings(req *types.ContainerHoldingsRequest) (*types.ContainerHoldingsResponse, error) {
	holdings, err := l.svcCtx.Portfolio.ContainerHoldings(l.ctx, req.Source, req.ContainerID, req.AccountID)
	if err != nil {
		return nil, err
	}

	lines := make([]types.HoldingLine, 0, len(holdings.Holdings))
	for _, h := range holdings.Holdings {
		lines = append(lines, types.HoldingLine{
			Asset:       h.Asset,
			AccountID:   h.AccountID,
			Quantity:    h.Quantity.String(),
			UnitPrice:   decPtr(h.UnitPrice),
			MarketValue: decPtr(h.MarketValue),
		})
	}

	missing := holdings.MissingPrices
	if missing == nil {
		missing = []string{}
	}

	return &types.ContainerHoldingsResponse{
		Source:        holdings.Source,
		ContainerID:   holdings.ContainerID,
		AccountID:     holdings.AccountID,
		Name:          holdings.Name,
		AsOf:          holdings.AsOf.Format(time.RFC3339),
		Currency:      holdings.Currency,
		TotalValue:    holdings.TotalValue.String(),
		Holdings:      lines,
		MissingPrices: missing,
	}, nil
}
