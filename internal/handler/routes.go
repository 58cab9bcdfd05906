// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"networth-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/networth",
				Handler: NetWorthHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/portfolio",
				Handler: PortfolioHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/containers",
				Handler: ContainersHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/containers/:source/:container/holdings",
				Handler: ContainerHoldingsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/accounts",
				Handler: AccountsHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/plaid/link-token",
				Handler: PlaidLinkTokenHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/plaid/exchange",
				Handler: PlaidExchangeHandler(serverCtx),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/plaid/items/:container",
				Handler: PlaidItemDeleteHandler(serverCtx),
			},
		},
		rest.WithPrefix("/agent"),
	)
}
