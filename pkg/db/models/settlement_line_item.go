package models

import (
	"time"

	"github.com/google/uuid"
)

// SettlementLineItem is the immutable copy of one cart line at commit time,
// priced with the snapshot taken when the line was added.
type SettlementLineItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SettlementID    uuid.UUID `gorm:"column:settlement_id;type:uuid;not null"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName     string    `gorm:"column:product_name;not null"`
	UnitPriceAmount int64     `gorm:"column:unit_price_amount;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
	LineTotalAmount int64     `gorm:"column:line_total_amount;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
