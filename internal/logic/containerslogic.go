package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

type ContainersLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewContainersLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ContainersLogic {
	return &ContainersLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Containers lists every container with its valued total.
func (l *ContainersLogic) Containers() (*types.ContainersResponse, error) {
	containers, warnings, err := l.svcCtx.Portfolio.Containers(l.ctx)
	if err != nil {
		return nil, err
	}
	return &types.ContainersResponse{
		Containers: toContainerRollups(containers),
		Warnings:   toWarnings(warnings),
	}, nil
}
