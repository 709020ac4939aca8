package models

// InvoiceCounter backs per-year invoice numbering. The row is updated inside
// the commit transaction, so the row lock serializes concurrent allocations.
type InvoiceCounter struct {
	Year         int   `gorm:"column:year;primaryKey"`
	LastSequence int64 `gorm:"column:last_sequence;not null;default:0"`
}
