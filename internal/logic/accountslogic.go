package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

type AccountsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAccountsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AccountsLogic {
	return &AccountsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Accounts enumerates the sub-accounts of one container.
func (l *AccountsLogic) Accounts(req *types.AccountsRequest) (*types.AccountsResponse, error) {
	containerID := req.ContainerID
	if containerID == "" {
		containerID = req.Source
	}

	accounts, err := l.svcCtx.Portfolio.Accounts(l.ctx, req.Source, containerID)
	if err != nil {
		return nil, err
	}

	refs := make([]types.AccountRef, 0, len(accounts))
	for _, a := range accounts {
		refs = append(refs, types.AccountRef{
			Source:      a.Source,
			ContainerID: a.ContainerID,
			AccountID:   a.AccountID,
			Name:        a.Name,
		})
	}
	return &types.AccountsResponse{Accounts: refs}, nil
}
