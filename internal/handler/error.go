package handler

import (
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"networth-api/internal/logic"
	"networth-api/pkg/portfolio"
)

// writeError maps domain errors to HTTP statuses. The error text is returned
// as-is; these endpoints are operator-facing.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, portfolio.ErrContainerNotFound), errors.Is(err, portfolio.ErrUnknownSource):
		status = http.StatusNotFound
	case errors.Is(err, portfolio.ErrAllSourcesFailed):
		status = http.StatusBadGateway
	case errors.Is(err, logic.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, logic.ErrPlaidNotConfigured):
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJsonCtx(r.Context(), w, status, map[string]string{"error": err.Error()})
}
