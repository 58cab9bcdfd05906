package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

type PlaidItemDeleteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPlaidItemDeleteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PlaidItemDeleteLogic {
	return &PlaidItemDeleteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// PlaidItemDelete unlinks a container: the token is invalidated at Plaid
// best-effort, then removed from the store.
func (l *PlaidItemDeleteLogic) PlaidItemDelete(req *types.PlaidItemDeleteRequest) (*types.PlaidItemDeleteResponse, error) {
	if l.svcCtx.Plaid == nil {
		return nil, ErrPlaidNotConfigured
	}

	item, err := l.svcCtx.Plaid.Store().Find(l.ctx, req.ContainerID)
	if err != nil {
		return nil, err
	}

	if item != nil {
		if err := l.svcCtx.Plaid.Client().RemoveItem(l.ctx, item.AccessToken); err != nil {
			// Plaid rejecting the removal must not strand the local record.
			l.Errorf("plaid item remove for container %s: %v", req.ContainerID, err)
		}
	}

	removed, err := l.svcCtx.Plaid.Store().Delete(l.ctx, req.ContainerID)
	if err != nil {
		return nil, err
	}

	return &types.PlaidItemDeleteResponse{
		ContainerID: req.ContainerID,
		Removed:     removed,
	}, nil
}
