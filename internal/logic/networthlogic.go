package logic

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

type NetWorthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewNetWorthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NetWorthLogic {
	return &NetWorthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// NetWorth builds a fresh snapshot and returns the totals view.
func (l *NetWorthLogic) NetWorth() (*types.NetWorthResponse, error) {
	snapshot, err := l.svcCtx.Portfolio.Snapshot(l.ctx)
	if err != nil {
		return nil, err
	}
	return &types.NetWorthResponse{
		SnapshotID:     snapshot.ID.String(),
		AsOf:           snapshot.AsOf.Format(time.RFC3339),
		Currency:       snapshot.Currency,
		TotalValue:     snapshot.TotalValue.String(),
		CashValue:      snapshot.CashValue.String(),
		PositionsValue: snapshot.PositionsValue.String(),
		MissingPrices:  toMissingPrices(snapshot.MissingPrices),
		Warnings:       toWarnings(snapshot.Warnings),
	}, nil
}
