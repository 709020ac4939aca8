package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/tillpoint/internal/cart"
	"github.com/avaldez-dev/tillpoint/internal/catalog"
	"github.com/avaldez-dev/tillpoint/internal/held"
	"github.com/avaldez-dev/tillpoint/internal/invoice"
	"github.com/avaldez-dev/tillpoint/internal/rates"
	"github.com/avaldez-dev/tillpoint/pkg/db"
	"github.com/avaldez-dev/tillpoint/pkg/db/models"
	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	"github.com/avaldez-dev/tillpoint/pkg/metrics"
	"github.com/avaldez-dev/tillpoint/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TenderOffer is the payment presented against a cart's total.
type TenderOffer struct {
	Method enums.TenderMethod
	Amount money.Money
}

// Receipt is the result of a committed settlement: the durable record plus
// the change owed to the customer in the tendered currency.
type Receipt struct {
	Record *models.SettlementRecord
	Change money.Money
}

// Engine orchestrates the settlement lifecycle: checkout, tender validation,
// the atomic commit transaction, and hold/resume. It owns the cart's state
// transitions past building.
type Engine interface {
	Checkout(ctx context.Context, c *cart.Cart) (cart.Totals, error)
	Settle(ctx context.Context, c *cart.Cart, offer TenderOffer, cashierRef string) (*Receipt, error)
	Cancel(ctx context.Context, c *cart.Cart) error
	Hold(ctx context.Context, c *cart.Cart, heldBy string) (string, error)
	Resume(ctx context.Context, code string) (*cart.Cart, error)
	Find(ctx context.Context, id uuid.UUID) (*models.SettlementRecord, error)
	FindByInvoice(ctx context.Context, invoiceNumber string) (*models.SettlementRecord, error)
	List(ctx context.Context, params ListParams) (*RecordList, error)
}

type engine struct {
	tx          txRunner
	catalogRepo catalog.Repository
	repo        Repository
	heldSvc     held.Service
	rates       rates.Provider
	alloc       *invoice.Allocator
	stats       *metrics.SettlementMetrics
	logg        *logger.Logger
	retryBudget int
	now         func() time.Time
}

// NewEngine builds the settlement engine.
func NewEngine(
	tx txRunner,
	catalogRepo catalog.Repository,
	repo Repository,
	heldSvc held.Service,
	ratesProvider rates.Provider,
	alloc *invoice.Allocator,
	stats *metrics.SettlementMetrics,
	logg *logger.Logger,
	retryBudget int,
) (Engine, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if repo == nil {
		return nil, fmt.Errorf("settlement repository required")
	}
	if heldSvc == nil {
		return nil, fmt.Errorf("held service required")
	}
	if ratesProvider == nil {
		return nil, fmt.Errorf("rates provider required")
	}
	if alloc == nil {
		alloc = invoice.NewAllocator()
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if retryBudget < 1 {
		retryBudget = 3
	}
	return &engine{
		tx:          tx,
		catalogRepo: catalogRepo,
		repo:        repo,
		heldSvc:     heldSvc,
		rates:       ratesProvider,
		alloc:       alloc,
		stats:       stats,
		logg:        logg,
		retryBudget: retryBudget,
		now:         time.Now,
	}, nil
}

// Checkout locks the cart for payment and returns the totals the cashier
// should quote.
func (e *engine) Checkout(ctx context.Context, c *cart.Cart) (cart.Totals, error) {
	if c == nil {
		return cart.Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	if err := c.BeginCheckout(); err != nil {
		return cart.Totals{}, err
	}
	return c.Totals()
}

// Settle validates the tender against the cart total and, if it covers the
// sale, commits stock decrements, the invoice number, and the settlement
// record in one transaction. Any failure rolls the whole transaction back
// and leaves the cart in the failed state with its lines intact.
func (e *engine) Settle(ctx context.Context, c *cart.Cart, offer TenderOffer, cashierRef string) (*Receipt, error) {
	start := e.now()
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	if !offer.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unrecognized tender method %q", offer.Method))
	}
	if !offer.Amount.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownCurrency, fmt.Sprintf("unrecognized currency %q", offer.Amount.Currency))
	}
	if offer.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tendered amount must not be negative")
	}
	if cashierRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashier reference required")
	}

	if err := c.BeginValidation(); err != nil {
		return nil, err
	}

	receipt, err := e.settleLocked(ctx, c, offer, cashierRef)
	e.stats.ObserveDuration(offer.Method.String(), e.now().Sub(start))
	if err != nil {
		// Lines survive so the cashier can re-tender or adjust the cart.
		_ = c.MarkFailed()
		e.stats.IncFailed(offer.Method.String(), failReason(err))
		e.logg.Error(ctx, "settlement failed", err)
		return nil, err
	}

	_ = c.MarkCommitted()
	e.stats.IncCommitted(offer.Method.String())
	e.logg.Info(e.logg.WithSaleID(ctx, receipt.Record.ID.String()), "settlement committed")
	return receipt, nil
}

func (e *engine) settleLocked(ctx context.Context, c *cart.Cart, offer TenderOffer, cashierRef string) (*Receipt, error) {
	totals, err := c.Totals()
	if err != nil {
		return nil, err
	}

	change, err := e.validateTender(ctx, c, offer, totals.Total)
	if err != nil {
		return nil, err
	}

	var record *models.SettlementRecord
	for attempt := 0; attempt < e.retryBudget; attempt++ {
		record, err = e.commit(ctx, c, offer, totals, change, cashierRef)
		if err == nil {
			return &Receipt{Record: record, Change: change}, nil
		}
		if !db.IsUniqueViolation(err, "invoice") {
			return nil, err
		}
		err = pkgerrors.Wrap(pkgerrors.CodeDuplicateInvoice, err, "invoice number already taken")
		e.logg.Warn(ctx, fmt.Sprintf("invoice number collision, retrying (attempt %d)", attempt+1))
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "could not allocate a unique invoice number")
}

// validateTender returns the change owed in the tendered currency. Card and
// mobile tenders must match the total exactly; cash may overpay, in any
// supported currency, with change computed at the provider's rate.
func (e *engine) validateTender(ctx context.Context, c *cart.Cart, offer TenderOffer, total money.Money) (money.Money, error) {
	if offer.Method.RequiresExactAmount() {
		if offer.Amount.Currency != total.Currency || !offer.Amount.Equal(total) {
			return money.Money{}, pkgerrors.New(pkgerrors.CodeExactPayment,
				fmt.Sprintf("%s tender must equal the total exactly", offer.Method)).
				WithDetails(map[string]any{
					"tendered": offer.Amount.String(),
					"total":    total.String(),
				})
		}
		return money.New(0, total.Currency), nil
	}

	rate, err := e.rates.Rate(ctx, total.Currency, offer.Amount.Currency)
	if err != nil {
		return money.Money{}, err
	}
	result, err := money.ComputeChange(total, offer.Amount, rate)
	if err != nil {
		return money.Money{}, err
	}
	return result.Change, nil
}

// commit runs the atomic settlement transaction: conditional stock
// decrements, invoice allocation, and the record plus its child rows. The
// invoice counter update serializes concurrent commits; an invoice-number
// unique violation aborts the transaction and surfaces to the retry loop.
func (e *engine) commit(ctx context.Context, c *cart.Cart, offer TenderOffer, totals cart.Totals, change money.Money, cashierRef string) (*models.SettlementRecord, error) {
	lines := c.Lines()
	record := &models.SettlementRecord{
		ID:             uuid.New(),
		SubtotalAmount: totals.Subtotal.Amount,
		TaxAmount:      totals.Tax.Amount,
		TaxRatePct:     c.TaxRate(),
		TotalAmount:    totals.Total.Amount,
		Currency:       c.Currency(),
		PaidAmount:     offer.Amount.Amount,
		PaidCurrency:   offer.Amount.Currency,
		ChangeAmount:   change.Amount,
		ChangeCurrency: change.Currency,
		TenderMethod:   offer.Method,
		Status:         enums.SettlementStatusCompleted,
		CustomerRef:    c.CustomerRef(),
		CashierRef:     cashierRef,
	}

	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := e.catalogRepo.WithTx(tx)
		repo := e.repo.WithTx(tx)

		entries := make([]models.StockLedgerEntry, 0, len(lines))
		for _, line := range lines {
			ok, err := catalogRepo.ConditionalDecrement(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				available, err := catalogRepo.GetAvailableQuantity(ctx, line.ProductID)
				if err != nil {
					return err
				}
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("requested %d of product %s, only %d available", line.Quantity, line.ProductID, available)).
					WithDetails(map[string]any{
						"product_id": line.ProductID.String(),
						"requested":  line.Quantity,
						"available":  available,
					})
			}
			remaining, err := catalogRepo.GetAvailableQuantity(ctx, line.ProductID)
			if err != nil {
				return err
			}
			entries = append(entries, models.StockLedgerEntry{
				ID:                uuid.New(),
				SettlementID:      record.ID,
				ProductID:         line.ProductID,
				QuantityDelta:     -line.Quantity,
				ResultingQuantity: remaining,
			})
		}

		invoiceNumber, err := e.alloc.Next(ctx, tx, e.now())
		if err != nil {
			return err
		}
		record.InvoiceNumber = invoiceNumber

		if err := repo.CreateRecord(ctx, record); err != nil {
			return err
		}

		items := make([]models.SettlementLineItem, len(lines))
		for i, line := range lines {
			items[i] = models.SettlementLineItem{
				ID:              uuid.New(),
				SettlementID:    record.ID,
				ProductID:       line.ProductID,
				ProductName:     line.ProductName,
				UnitPriceAmount: line.UnitPrice.Amount,
				Quantity:        line.Quantity,
				LineTotalAmount: line.Total().Amount,
			}
		}
		if err := repo.CreateLineItems(ctx, items); err != nil {
			return err
		}
		return repo.CreateStockEntries(ctx, entries)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Cancel abandons the cart without touching persistence.
func (e *engine) Cancel(ctx context.Context, c *cart.Cart) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	return c.Cancel()
}

// Hold parks the cart under a retrieval code.
func (e *engine) Hold(ctx context.Context, c *cart.Cart, heldBy string) (string, error) {
	code, err := e.heldSvc.Hold(ctx, c, heldBy)
	if err != nil {
		return "", err
	}
	e.stats.IncHeld()
	e.logg.Info(ctx, "transaction held")
	return code, nil
}

// Resume redeems a hold code back into a live cart.
func (e *engine) Resume(ctx context.Context, code string) (*cart.Cart, error) {
	c, err := e.heldSvc.Resume(ctx, code)
	if err != nil {
		return nil, err
	}
	e.stats.IncResumed()
	e.logg.Info(ctx, "transaction resumed")
	return c, nil
}

// Find loads a settlement record with its line items and stock entries.
func (e *engine) Find(ctx context.Context, id uuid.UUID) (*models.SettlementRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settlement id required")
	}
	return e.repo.FindByID(ctx, id)
}

// FindByInvoice loads a settlement record by its invoice number.
func (e *engine) FindByInvoice(ctx context.Context, invoiceNumber string) (*models.SettlementRecord, error) {
	if invoiceNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice number required")
	}
	return e.repo.FindByInvoiceNumber(ctx, invoiceNumber)
}

func failReason(err error) string {
	if coded := pkgerrors.As(err); coded != nil {
		return string(coded.Code())
	}
	return "INTERNAL"
}
