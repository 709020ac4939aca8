package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
)

// CartLineSnapshot is one cart line serialized verbatim for hold/resume.
type CartLineSnapshot struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	UnitPriceAmount int64     `json:"unit_price_amount"`
	Quantity        int       `json:"quantity"`
}

// CartSnapshot captures everything needed to reconstruct a cart identically:
// lines in order, tax rate, currency and customer reference.
type CartSnapshot struct {
	Lines       []CartLineSnapshot `json:"lines"`
	TaxRatePct  decimal.Decimal    `json:"tax_rate_pct"`
	Currency    enums.Currency     `json:"currency"`
	CustomerRef *uuid.UUID         `json:"customer_ref,omitempty"`
}
