package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks on-hand quantity per product. Decrements at commit
// time go through a conditional update so the count never goes negative.
type InventoryItem struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
