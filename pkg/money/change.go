package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// ChangeResult is the outcome of computing change for a cash tender.
type ChangeResult struct {
	Change        Money `json:"change"`
	TenderedTotal Money `json:"tendered_total"`
}

// ComputeChange converts the sale total into the tendered currency and
// returns the change owed, always in the tendered currency. A tender below
// the converted total is a hard failure, never a negative change value.
func ComputeChange(total, tendered Money, rate decimal.Decimal) (ChangeResult, error) {
	convertedTotal, err := Convert(total, tendered.Currency, rate)
	if err != nil {
		return ChangeResult{}, err
	}
	if tendered.Amount < convertedTotal.Amount {
		return ChangeResult{}, pkgerrors.New(pkgerrors.CodeInsufficientTender,
			fmt.Sprintf("tendered %s below total %s", tendered, convertedTotal)).
			WithDetails(map[string]any{
				"tendered": tendered.String(),
				"total":    convertedTotal.String(),
			})
	}
	change, err := tendered.Sub(convertedTotal)
	if err != nil {
		return ChangeResult{}, err
	}
	return ChangeResult{Change: change, TenderedTotal: convertedTotal}, nil
}
