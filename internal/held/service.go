package held

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avaldez-dev/tillpoint/internal/cart"
	"github.com/avaldez-dev/tillpoint/pkg/db"
	"github.com/avaldez-dev/tillpoint/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// codeAlphabet avoids characters cashiers misread on receipts (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeRetries = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service parks carts under unique codes and redeems them at most once.
type Service interface {
	Hold(ctx context.Context, c *cart.Cart, heldBy string) (string, error)
	Resume(ctx context.Context, code string) (*cart.Cart, error)
	List(ctx context.Context) ([]models.HeldTransaction, error)
}

type service struct {
	tx         txRunner
	repo       Repository
	codeLength int
}

// NewService builds the held-transaction service.
func NewService(tx txRunner, repo Repository, codeLength int) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("held repository required")
	}
	if codeLength < 4 {
		codeLength = 8
	}
	return &service{tx: tx, repo: repo, codeLength: codeLength}, nil
}

// Hold serializes the cart verbatim into a HeldTransaction. On success the
// cart is in the held state and the caller should discard it; the snapshot
// is the source of truth until resume.
func (s *service) Hold(ctx context.Context, c *cart.Cart, heldBy string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	if err := c.CanHold(); err != nil {
		return "", err
	}
	totals, err := c.Totals()
	if err != nil {
		return "", err
	}

	record := models.HeldTransaction{
		Cart:           c.Snapshot(),
		SubtotalAmount: totals.Subtotal.Amount,
		TaxAmount:      totals.Tax.Amount,
		TotalAmount:    totals.Total.Amount,
		Currency:       c.Currency(),
		HeldBy:         heldBy,
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		record.Code = code
		err = s.repo.Create(ctx, &record)
		if err == nil {
			// CanHold passed above, so this cannot fail.
			_ = c.MarkHeld()
			return code, nil
		}
		if !db.IsUniqueViolation(err, "") {
			return "", pkgerrors.Wrap(pkgerrors.CodePersistence, err, "storing held transaction")
		}
	}
	return "", pkgerrors.New(pkgerrors.CodePersistence, "could not allocate a unique hold code")
}

// Resume claims a code and reconstructs the parked cart. Lookup and delete
// share one transaction, so a code resumes at most once even when two
// registers race on it.
func (s *service) Resume(ctx context.Context, code string) (*cart.Cart, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hold code required")
	}

	var restored *cart.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return heldNotFound(code)
			}
			return err
		}
		deleted, err := repo.DeleteByCode(ctx, code)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return heldNotFound(code)
		}
		restored, err = cart.FromSnapshot(record.Cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

func (s *service) List(ctx context.Context) ([]models.HeldTransaction, error) {
	return s.repo.List(ctx)
}

func (s *service) newCode() (string, error) {
	buf := make([]byte, s.codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating hold code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

func heldNotFound(code string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeHeldNotFound, "held transaction not found").
		WithDetails(map[string]any{"code": code})
}
