package controllers

import (
	"net/http"

	"github.com/avaldez-dev/tillpoint/api/responses"
	"github.com/avaldez-dev/tillpoint/internal/held"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
)

// ListHeld returns every parked transaction still waiting to be resumed.
func ListHeld(svc held.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hold service unavailable"))
			return
		}

		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"held": records})
	}
}
