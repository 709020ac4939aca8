package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
)

// Product is the catalog row the engine reads prices from. Price changes
// here never affect lines already in a cart; carts snapshot at add time.
type Product struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU             string         `gorm:"column:sku;not null;uniqueIndex"`
	Name            string         `gorm:"column:name;not null"`
	UnitPriceAmount int64          `gorm:"column:unit_price_amount;not null"`
	Currency        enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
