package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{CodeValidation, http.StatusBadRequest, "validation failed", false, true},
		{CodeNotFound, http.StatusNotFound, "resource not found", false, false},
		{CodeStateConflict, http.StatusUnprocessableEntity, "state transition disallowed", false, true},
		{CodeInsufficientStock, http.StatusConflict, "insufficient stock", true, true},
		{CodeInsufficientTender, http.StatusUnprocessableEntity, "tendered amount below total", true, true},
		{CodeExactPayment, http.StatusUnprocessableEntity, "exact payment required for this tender method", true, true},
		{CodeUnknownCurrency, http.StatusBadRequest, "unrecognized currency code", false, true},
		{CodeDuplicateInvoice, http.StatusConflict, "invoice number collision", true, false},
		{CodePersistence, http.StatusServiceUnavailable, "settlement could not be committed", true, false},
		{CodeHeldNotFound, http.StatusNotFound, "held transaction not found", false, true},
		{CodeIdempotency, http.StatusConflict, "idempotency key conflict", false, false},
		{CodeDependency, http.StatusBadGateway, "upstream dependency failure", true, false},
		{CodeInternal, http.StatusInternalServerError, "internal server error", true, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			meta := MetadataFor(tc.code)
			assert.Equal(t, tc.status, meta.HTTPStatus)
			assert.Equal(t, tc.publicMsg, meta.PublicMessage)
			assert.Equal(t, tc.retryable, meta.Retryable)
			assert.Equal(t, tc.detailsOK, meta.DetailsAllowed)
		})
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	assert.Equal(t, MetadataFor(CodeInternal), meta)
}

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeInsufficientStock, "only 2 units of sku-9 left")

	assert.Equal(t, CodeInsufficientStock, err.Code())
	assert.Equal(t, "only 2 units of sku-9 left", err.Message())
	assert.Equal(t, "INSUFFICIENT_STOCK: only 2 units of sku-9 left", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("driver: connection reset")
	err := Wrap(CodePersistence, cause, "settlement commit failed")

	assert.Equal(t, CodePersistence, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestWrapWithNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeHeldNotFound, nil, "no hold with that code")

	assert.Equal(t, CodeHeldNotFound, err.Code())
	assert.Nil(t, err.Unwrap())
}

func TestWithDetailsRoundTrip(t *testing.T) {
	details := map[string]any{"product_id": "p-1", "requested": 5, "available": 2}
	err := New(CodeInsufficientStock, "oversell").WithDetails(details)

	assert.Equal(t, details, err.Details())
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeExactPayment, "gift cards settle only at exact total")
	wrapped := fmt.Errorf("settle: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeExactPayment, typed.Code())

	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeIdempotency, "key reused with a different body"))

	assert.True(t, IsCode(err, CodeIdempotency))
	assert.False(t, IsCode(err, CodeValidation))
	assert.False(t, IsCode(nil, CodeIdempotency))
}
