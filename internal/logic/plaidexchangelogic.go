package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
	"networth-api/pkg/provider"
)

type PlaidExchangeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPlaidExchangeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PlaidExchangeLogic {
	return &PlaidExchangeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// PlaidExchange trades a Link public token for an access token and stores it
// under the given container id. Re-linking a container replaces its token.
func (l *PlaidExchangeLogic) PlaidExchange(req *types.PlaidExchangeRequest) (*types.PlaidExchangeResponse, error) {
	if l.svcCtx.Plaid == nil {
		return nil, ErrPlaidNotConfigured
	}
	if req.PublicToken == "" {
		return nil, fmt.Errorf("%w: public_token is required", ErrBadRequest)
	}
	if req.ContainerID == "" {
		return nil, fmt.Errorf("%w: container_id is required", ErrBadRequest)
	}

	result, err := l.svcCtx.Plaid.Client().ExchangePublicToken(l.ctx, req.PublicToken)
	if err != nil {
		return nil, err
	}

	item := provider.LinkItem{
		ContainerID:     req.ContainerID,
		AccessToken:     result.AccessToken,
		ItemID:          result.ItemID,
		InstitutionName: req.InstitutionName,
		CreatedAt:       time.Now().UTC(),
	}
	if err := l.svcCtx.Plaid.Store().Save(l.ctx, item); err != nil {
		return nil, err
	}

	l.Infof("linked plaid item %s as container %s", result.ItemID, req.ContainerID)
	return &types.PlaidExchangeResponse{
		ContainerID: req.ContainerID,
		ItemID:      result.ItemID,
	}, nil
}
