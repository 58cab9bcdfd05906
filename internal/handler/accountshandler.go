package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"networth-api/internal/logic"
	"networth-api/internal/svc"
	"networth-api/internal/types"
)

func AccountsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AccountsRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewAccountsLogic(r.Context(), svcCtx)
		resp, err := l.Accounts(&req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
