package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaldez-dev/tillpoint/api/responses"
	"github.com/avaldez-dev/tillpoint/api/validators"
	"github.com/avaldez-dev/tillpoint/internal/settlement"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	"github.com/avaldez-dev/tillpoint/pkg/pagination"
)

// ListSettlements returns committed settlement records, newest first, with
// cursor pagination.
func ListSettlements(engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := settlement.ListParams{
			Params: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		list, err := engine.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"records":     list.Records,
			"next_cursor": list.NextCursor,
		})
	}
}

// GetSettlement returns one settlement record with its lines and stock
// movements.
func GetSettlement(engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "settlementID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid settlement id"))
			return
		}

		record, err := engine.Find(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// GetSettlementByInvoice looks a settlement up by its invoice number.
func GetSettlementByInvoice(engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		invoiceNumber := strings.TrimSpace(chi.URLParam(r, "invoiceNumber"))
		if invoiceNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice number required"))
			return
		}

		record, err := engine.FindByInvoice(r.Context(), invoiceNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
