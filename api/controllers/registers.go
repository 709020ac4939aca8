package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/api/middleware"
	"github.com/avaldez-dev/tillpoint/api/responses"
	"github.com/avaldez-dev/tillpoint/api/validators"
	cartpkg "github.com/avaldez-dev/tillpoint/internal/cart"
	"github.com/avaldez-dev/tillpoint/internal/catalog"
	"github.com/avaldez-dev/tillpoint/internal/register"
	"github.com/avaldez-dev/tillpoint/internal/settlement"
	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	"github.com/avaldez-dev/tillpoint/pkg/money"
	"github.com/avaldez-dev/tillpoint/pkg/types"
)

type cartResponse struct {
	State  enums.CartState    `json:"state"`
	Cart   types.CartSnapshot `json:"cart"`
	Totals cartpkg.Totals     `json:"totals"`
}

func newCartResponse(c *cartpkg.Cart) (cartResponse, error) {
	totals, err := c.Totals()
	if err != nil {
		return cartResponse{}, err
	}
	return cartResponse{State: c.State(), Cart: c.Snapshot(), Totals: totals}, nil
}

func writeCart(w http.ResponseWriter, r *http.Request, logg *logger.Logger, c *cartpkg.Cart) {
	resp, err := newCartResponse(c)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func registerFromRequest(r *http.Request) (string, error) {
	registerID := middleware.RegisterIDFromContext(r.Context())
	if registerID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "register id missing from request")
	}
	return registerID, nil
}

type openCartRequest struct {
	Currency string `json:"currency" validate:"required"`
}

// OpenCart starts (or returns) the register's active cart in the requested
// currency.
func OpenCart(store *register.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register store unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload openCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := enums.ParseCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnknownCurrency, err, "unsupported currency"))
			return
		}

		c, err := store.Open(registerID, currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, c)
	}
}

// GetCart returns the register's active cart.
func GetCart(store *register.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register store unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, c)
	}
}

type addLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

// AddCartLine adds units of a product to the active cart, pricing the line
// from the catalog.
func AddCartLine(store *register.Store, products catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register services unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty := payload.Quantity
		if qty == 0 {
			qty = 1
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.FindByID(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price := money.New(product.UnitPriceAmount, product.Currency)

		available, err := products.GetAvailableQuantity(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current := 0
		for _, line := range c.Lines() {
			if line.ProductID == payload.ProductID {
				current = line.Quantity
			}
		}

		if current == 0 {
			if err := c.AddLine(payload.ProductID, product.Name, price, available); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			current = 1
			qty--
		}
		if qty > 0 {
			if err := c.SetQuantity(payload.ProductID, current+qty, available); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		writeCart(w, r, logg, c)
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// SetCartLineQuantity replaces a line's quantity; zero removes the line.
func SetCartLineQuantity(store *register.Store, products catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register services unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available := 0
		if payload.Quantity > 0 {
			available, err = products.GetAvailableQuantity(r.Context(), productID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if err := c.SetQuantity(productID, payload.Quantity, available); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, c)
	}
}

// RemoveCartLine drops a product from the active cart.
func RemoveCartLine(store *register.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register store unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := c.RemoveLine(productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, c)
	}
}

type setTaxRequest struct {
	RatePct decimal.Decimal `json:"rate_pct"`
}

// SetCartTax sets the cart's tax percentage.
func SetCartTax(store *register.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register store unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setTaxRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := c.SetTaxRate(payload.RatePct); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, c)
	}
}

type setCustomerRequest struct {
	CustomerRef types.NullableUUID `json:"customer_ref"`
}

// SetCartCustomer attaches or clears the cart's customer reference.
func SetCartCustomer(store *register.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register store unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !payload.CustomerRef.Valid {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_ref required; use null to clear"))
			return
		}

		c.SetCustomer(payload.CustomerRef.Value)
		writeCart(w, r, logg, c)
	}
}

// Checkout freezes the cart for payment and returns the totals the customer
// owes.
func Checkout(store *register.Store, engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := engine.Checkout(r.Context(), c)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"state":  c.State(),
			"totals": totals,
		})
	}
}

type settleRequest struct {
	Method     string `json:"method" validate:"required"`
	Amount     int64  `json:"amount" validate:"min=0"`
	Currency   string `json:"currency" validate:"required"`
	CashierRef string `json:"cashier_ref" validate:"required,max=64"`
}

type receiptResponse struct {
	Record any         `json:"record"`
	Change money.Money `json:"change"`
}

// Settle applies a tender to the frozen cart and commits the sale.
func Settle(store *register.Store, engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload settleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseTenderMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported tender method"))
			return
		}
		currency, err := enums.ParseCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnknownCurrency, err, "unsupported currency"))
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer := settlement.TenderOffer{
			Method: method,
			Amount: money.New(payload.Amount, currency),
		}
		cashierRef := validators.SanitizeString(payload.CashierRef, 64)

		receipt, err := engine.Settle(r.Context(), c, offer, cashierRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(registerID)
		responses.WriteSuccessStatus(w, http.StatusCreated, receiptResponse{
			Record: receipt.Record,
			Change: receipt.Change,
		})
	}
}

// CancelCart abandons the register's active cart.
func CancelCart(store *register.Store, engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := engine.Cancel(r.Context(), c); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(registerID)
		responses.WriteSuccess(w, map[string]string{"state": string(c.State())})
	}
}

type holdRequest struct {
	HeldBy string `json:"held_by" validate:"required,max=64"`
}

// HoldCart parks the active cart under a resume code and frees the register.
func HoldCart(store *register.Store, engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload holdRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Get(registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, err := engine.Hold(r.Context(), c, validators.SanitizeString(payload.HeldBy, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(registerID)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"code": code})
	}
}

type resumeRequest struct {
	Code string `json:"code" validate:"required"`
}

// ResumeCart redeems a hold code and attaches the parked cart to this
// register.
func ResumeCart(store *register.Store, engine settlement.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		registerID, err := registerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resumeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Resume deletes the snapshot row, so a busy register must reject
		// the request before the code is redeemed.
		if err := store.CanAttach(registerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := engine.Resume(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Attach(registerID, c); err != nil {
			// The register was taken between the check and the attach. The
			// original code is already redeemed; park the cart again under a
			// fresh code rather than dropping it.
			if code, holdErr := engine.Hold(r.Context(), c, ""); holdErr == nil {
				err = pkgerrors.New(pkgerrors.CodeStateConflict, "register already has an active cart; transaction re-held").
					WithDetails(map[string]any{"register_id": registerID, "code": code})
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(w, r, logg, c)
	}
}
