package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

type PortfolioLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPortfolioLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PortfolioLogic {
	return &PortfolioLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Portfolio returns the full snapshot with every rollup view.
func (l *PortfolioLogic) Portfolio() (*types.PortfolioResponse, error) {
	snapshot, err := l.svcCtx.Portfolio.Snapshot(l.ctx)
	if err != nil {
		return nil, err
	}
	return toPortfolioResponse(snapshot), nil
}
