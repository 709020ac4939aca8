package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLedgerEntry records one inventory delta taken by a commit, written in
// the same transaction as its SettlementRecord.
type StockLedgerEntry struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SettlementID      uuid.UUID `gorm:"column:settlement_id;type:uuid;not null"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	QuantityDelta     int       `gorm:"column:quantity_delta;not null"`
	ResultingQuantity int       `gorm:"column:resulting_quantity;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
