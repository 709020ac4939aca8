package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
)

// SettlementRecord is the single durable result of a committed sale. It
// replaces the split Sale/Invoice pair some POS systems keep; one row holds
// both shapes. Rows are append-only: created exactly once per commit, never
// updated.
type SettlementRecord struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceNumber  string                 `gorm:"column:invoice_number;not null;uniqueIndex"`
	SubtotalAmount int64                  `gorm:"column:subtotal_amount;not null"`
	TaxAmount      int64                  `gorm:"column:tax_amount;not null;default:0"`
	TaxRatePct     decimal.Decimal        `gorm:"column:tax_rate_pct;type:numeric;not null"`
	TotalAmount    int64                  `gorm:"column:total_amount;not null"`
	Currency       enums.Currency         `gorm:"column:currency;type:text;not null"`
	PaidAmount     int64                  `gorm:"column:paid_amount;not null"`
	PaidCurrency   enums.Currency         `gorm:"column:paid_currency;type:text;not null"`
	ChangeAmount   int64                  `gorm:"column:change_amount;not null;default:0"`
	ChangeCurrency enums.Currency         `gorm:"column:change_currency;type:text;not null"`
	TenderMethod   enums.TenderMethod     `gorm:"column:tender_method;type:text;not null"`
	Status         enums.SettlementStatus `gorm:"column:status;type:text;not null;default:'completed'"`
	CustomerRef    *uuid.UUID             `gorm:"column:customer_ref;type:uuid"`
	CashierRef     string                 `gorm:"column:cashier_ref;not null"`
	LineItems      []SettlementLineItem   `gorm:"foreignKey:SettlementID;constraint:OnDelete:CASCADE"`
	StockEntries   []StockLedgerEntry     `gorm:"foreignKey:SettlementID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}
