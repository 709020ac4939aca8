package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/tillpoint/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/money"
)

// Repository is the engine's surface onto the shared product store. The
// price/quantity reads feed cart building; ConditionalDecrement is the
// commit-time oversell guard and must run on a transaction-bound repository.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetPrice(ctx context.Context, id uuid.UUID) (money.Money, error)
	GetAvailableQuantity(ctx context.Context, id uuid.UUID) (int, error)
	ConditionalDecrement(ctx context.Context, productID uuid.UUID, n int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) GetPrice(ctx context.Context, id uuid.UUID) (money.Money, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return money.Money{}, err
	}
	return money.New(product.UnitPriceAmount, product.Currency), nil
}

func (r *repository) GetAvailableQuantity(ctx context.Context, id uuid.UUID) (int, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return item.Quantity, nil
}

// ConditionalDecrement takes n units of stock only if at least n remain. The
// quantity guard rides in the WHERE clause, so the check and the decrement
// are one atomic statement; RowsAffected tells us which way it went.
func (r *repository) ConditionalDecrement(ctx context.Context, productID uuid.UUID, n int) (bool, error) {
	if n < 1 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "decrement quantity must be at least 1")
	}
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("product_id = ? AND quantity >= ?", productID, n).
		Update("quantity", gorm.Expr("quantity - ?", n))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
