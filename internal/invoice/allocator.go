package invoice

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avaldez-dev/tillpoint/pkg/db/models"
)

// Allocator hands out {year}{sequence} invoice numbers. Next must be called
// inside the commit transaction: the counter-row update takes a row lock, so
// concurrent commits serialize on it and no two commits see the same
// sequence. The unique index on settlement_records.invoice_number backstops
// anything that slips through.
type Allocator struct{}

// NewAllocator builds an invoice number allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns the next invoice number for the year of the given timestamp.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error) {
	year := at.Year()

	result := tx.WithContext(ctx).
		Model(&models.InvoiceCounter{}).
		Where("year = ?", year).
		Update("last_sequence", gorm.Expr("last_sequence + 1"))
	if result.Error != nil {
		return "", fmt.Errorf("bumping invoice counter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// First invoice of the year. A concurrent first-invoice insert loses
		// on the primary key and surfaces to the caller's retry budget.
		if err := tx.WithContext(ctx).Create(&models.InvoiceCounter{Year: year, LastSequence: 1}).Error; err != nil {
			return "", fmt.Errorf("seeding invoice counter: %w", err)
		}
		return Format(year, 1), nil
	}

	var counter models.InvoiceCounter
	if err := tx.WithContext(ctx).Where("year = ?", year).First(&counter).Error; err != nil {
		return "", fmt.Errorf("reading invoice counter: %w", err)
	}
	return Format(year, counter.LastSequence), nil
}

// Format renders an invoice number from its parts.
func Format(year int, sequence int64) string {
	return fmt.Sprintf("%d%06d", year, sequence)
}
