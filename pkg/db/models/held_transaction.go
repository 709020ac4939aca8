package models

import (
	"time"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	"github.com/avaldez-dev/tillpoint/pkg/types"
)

// HeldTransaction parks a serialized cart under a unique code. Resuming
// deletes the row, so a code is redeemable at most once.
type HeldTransaction struct {
	Code           string             `gorm:"column:code;primaryKey"`
	Cart           types.CartSnapshot `gorm:"column:cart;type:jsonb;serializer:json;not null"`
	SubtotalAmount int64              `gorm:"column:subtotal_amount;not null"`
	TaxAmount      int64              `gorm:"column:tax_amount;not null"`
	TotalAmount    int64              `gorm:"column:total_amount;not null"`
	Currency       enums.Currency     `gorm:"column:currency;type:text;not null"`
	HeldBy         string             `gorm:"column:held_by;not null"`
	HeldAt         time.Time          `gorm:"column:held_at;autoCreateTime"`
}
