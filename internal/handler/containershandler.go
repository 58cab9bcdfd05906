package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"networth-api/internal/logic"
	"networth-api/internal/svc"
)

func ContainersHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewContainersLogic(r.Context(), svcCtx)
		resp, err := l.Containers()
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
