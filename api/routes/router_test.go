package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartpkg "github.com/avaldez-dev/tillpoint/internal/cart"
	"github.com/avaldez-dev/tillpoint/internal/catalog"
	"github.com/avaldez-dev/tillpoint/internal/register"
	"github.com/avaldez-dev/tillpoint/internal/settlement"
	"github.com/avaldez-dev/tillpoint/pkg/config"
	"github.com/avaldez-dev/tillpoint/pkg/db/models"
	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	"github.com/avaldez-dev/tillpoint/pkg/money"
)

type fakeCatalog struct {
	products  map[uuid.UUID]*models.Product
	available map[uuid.UUID]int
}

func (f *fakeCatalog) WithTx(*gorm.DB) catalog.Repository { return f }

func (f *fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func (f *fakeCatalog) GetPrice(ctx context.Context, id uuid.UUID) (money.Money, error) {
	p, err := f.FindByID(ctx, id)
	if err != nil {
		return money.Money{}, err
	}
	return money.New(p.UnitPriceAmount, p.Currency), nil
}

func (f *fakeCatalog) GetAvailableQuantity(_ context.Context, id uuid.UUID) (int, error) {
	return f.available[id], nil
}

func (f *fakeCatalog) ConditionalDecrement(_ context.Context, id uuid.UUID, n int) (bool, error) {
	if f.available[id] < n {
		return false, nil
	}
	f.available[id] -= n
	return true, nil
}

type fakeEngine struct {
	receipts int
}

func (f *fakeEngine) Checkout(_ context.Context, c *cartpkg.Cart) (cartpkg.Totals, error) {
	if err := c.BeginCheckout(); err != nil {
		return cartpkg.Totals{}, err
	}
	return c.Totals()
}

func (f *fakeEngine) Settle(_ context.Context, c *cartpkg.Cart, offer settlement.TenderOffer, _ string) (*settlement.Receipt, error) {
	f.receipts++
	return &settlement.Receipt{
		Record: &models.SettlementRecord{InvoiceNumber: "2026000042"},
		Change: money.New(0, offer.Amount.Currency),
	}, nil
}

func (f *fakeEngine) Cancel(_ context.Context, c *cartpkg.Cart) error { return c.Cancel() }

func (f *fakeEngine) Hold(context.Context, *cartpkg.Cart, string) (string, error) {
	return "HOLD-0001", nil
}

func (f *fakeEngine) Resume(context.Context, string) (*cartpkg.Cart, error) {
	return nil, pkgerrors.New(pkgerrors.CodeHeldNotFound, "no held transaction for code")
}

func (f *fakeEngine) Find(context.Context, uuid.UUID) (*models.SettlementRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settlement not found")
}

func (f *fakeEngine) FindByInvoice(context.Context, string) (*models.SettlementRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settlement not found")
}

func (f *fakeEngine) List(context.Context, settlement.ListParams) (*settlement.RecordList, error) {
	return &settlement.RecordList{}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *fakeCatalog, *fakeEngine) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})

	cat := &fakeCatalog{
		products:  map[uuid.UUID]*models.Product{},
		available: map[uuid.UUID]int{},
	}
	engine := &fakeEngine{}

	handler := NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Registers: register.NewStore(),
		Catalog:   cat,
		Engine:    engine,
	})
	return handler, cat, engine
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	handler, _, _ := newTestRouter(t)
	rec := do(t, handler, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from liveness, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Tillpoint-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRegisterSaleFlow(t *testing.T) {
	handler, cat, engine := newTestRouter(t)

	productID := uuid.New()
	cat.products[productID] = &models.Product{
		ID:              productID,
		SKU:             "SKU-9",
		Name:            "Cold Brew",
		UnitPriceAmount: 500,
		Currency:        enums.CurrencyUSD,
	}
	cat.available[productID] = 8

	rec := do(t, handler, http.MethodPost, "/api/v1/registers/reg-7/cart", `{"currency":"USD"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("open cart failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, handler, http.MethodPost, "/api/v1/registers/reg-7/cart/lines",
		`{"product_id":"`+productID.String()+`","quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add line failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, handler, http.MethodPost, "/api/v1/registers/reg-7/checkout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout failed: %d %s", rec.Code, rec.Body.String())
	}

	var checkoutBody struct {
		Data struct {
			Totals cartpkg.Totals `json:"totals"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&checkoutBody); err != nil {
		t.Fatalf("failed to decode checkout response: %v", err)
	}
	if got := checkoutBody.Data.Totals.Total.Amount; got != 1000 {
		t.Fatalf("expected total 1000, got %d", got)
	}

	rec = do(t, handler, http.MethodPost, "/api/v1/registers/reg-7/settle",
		`{"method":"card","amount":1000,"currency":"USD","cashier_ref":"till-1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("settle failed: %d %s", rec.Code, rec.Body.String())
	}
	if engine.receipts != 1 {
		t.Fatalf("expected one settle, got %d", engine.receipts)
	}

	rec = do(t, handler, http.MethodGet, "/api/v1/registers/reg-7/cart", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected cleared register after settle, got %d", rec.Code)
	}
}

func TestSettlementLookupRoutes(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := do(t, handler, http.MethodGet, "/api/v1/settlements/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list settlements failed: %d", rec.Code)
	}

	rec = do(t, handler, http.MethodGet, "/api/v1/settlements/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown settlement, got %d", rec.Code)
	}

	rec = do(t, handler, http.MethodGet, "/api/v1/settlements/invoice/2026000099", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown invoice, got %d", rec.Code)
	}
}

func TestResumeUnknownCode(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := do(t, handler, http.MethodPost, "/api/v1/registers/reg-7/resume", `{"code":"HOLD-9999"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown hold code, got %d", rec.Code)
	}
}
