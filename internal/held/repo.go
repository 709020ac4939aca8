package held

import (
	"context"

	"gorm.io/gorm"

	"github.com/avaldez-dev/tillpoint/pkg/db/models"
)

// Repository manages persistence for held transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.HeldTransaction) error
	FindByCode(ctx context.Context, code string) (*models.HeldTransaction, error)
	DeleteByCode(ctx context.Context, code string) (int64, error)
	List(ctx context.Context) ([]models.HeldTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a held-transaction repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.HeldTransaction) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.HeldTransaction, error) {
	var record models.HeldTransaction
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteByCode removes the record and reports how many rows went away, so
// the caller can tell a successful claim from a lost race.
func (r *repository) DeleteByCode(ctx context.Context, code string) (int64, error) {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&models.HeldTransaction{})
	return result.RowsAffected, result.Error
}

func (r *repository) List(ctx context.Context) ([]models.HeldTransaction, error) {
	var records []models.HeldTransaction
	if err := r.db.WithContext(ctx).Order("held_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
