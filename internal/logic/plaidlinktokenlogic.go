package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"networth-api/internal/svc"
	"networth-api/internal/types"
)

// ErrPlaidNotConfigured is returned by the link endpoints when no plaid
// source (or no token store) is wired into the deployment.
var ErrPlaidNotConfigured = errors.New("plaid source is not configured")

// ErrBadRequest wraps client-side input defects.
var ErrBadRequest = errors.New("bad request")

type PlaidLinkTokenLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPlaidLinkTokenLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PlaidLinkTokenLogic {
	return &PlaidLinkTokenLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// PlaidLinkToken starts a Plaid Link session.
func (l *PlaidLinkTokenLogic) PlaidLinkToken(req *types.PlaidLinkTokenRequest) (*types.PlaidLinkTokenResponse, error) {
	if l.svcCtx.Plaid == nil {
		return nil, ErrPlaidNotConfigured
	}

	userID := req.UserID
	if userID == "" {
		userID = "default"
	}

	token, err := l.svcCtx.Plaid.Client().CreateLinkToken(l.ctx, userID)
	if err != nil {
		return nil, err
	}
	return &types.PlaidLinkTokenResponse{LinkToken: token}, nil
}
