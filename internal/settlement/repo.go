package settlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/tillpoint/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/pagination"
)

// Repository persists settlement records and their child rows. Creates are
// append-only; nothing here updates or deletes a committed record.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRecord(ctx context.Context, record *models.SettlementRecord) error
	CreateLineItems(ctx context.Context, items []models.SettlementLineItem) error
	CreateStockEntries(ctx context.Context, entries []models.StockLedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SettlementRecord, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.SettlementRecord, error)
	List(ctx context.Context, params pagination.Params) ([]models.SettlementRecord, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settlement repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRecord(ctx context.Context, record *models.SettlementRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) CreateLineItems(ctx context.Context, items []models.SettlementLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreateStockEntries(ctx context.Context, entries []models.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("StockEntries").
		Where("id = ?", id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "settlement record not found")
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("StockEntries").
		Where("invoice_number = ?", invoiceNumber).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "settlement record not found")
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns committed settlements newest first using cursor pagination.
func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.SettlementRecord, string, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.SettlementRecord{})
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var records []models.SettlementRecord
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, "", err
	}

	if len(records) > normalized {
		next := records[normalized]
		records = records[:normalized]
		return records, pagination.EncodeCursor(pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}), nil
	}
	return records, "", nil
}
