package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"networth-api/internal/logic"
	"networth-api/internal/svc"
)

func NetWorthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewNetWorthLogic(r.Context(), svcCtx)
		resp, err := l.NetWorth()
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
