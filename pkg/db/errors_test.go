package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationPgconn(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_settlement_records_invoice_number"}

	assert.True(t, IsUniqueViolation(dup, ""))
	assert.True(t, IsUniqueViolation(dup, "invoice"))
	assert.False(t, IsUniqueViolation(dup, "held_codes"))

	notNull := &pgconn.PgError{Code: "23502", ColumnName: "currency"}
	assert.False(t, IsUniqueViolation(notNull, ""))
}

func TestIsUniqueViolationMessageFallback(t *testing.T) {
	sqlite := fmt.Errorf("UNIQUE constraint failed: settlement_records.invoice_number")

	assert.True(t, IsUniqueViolation(sqlite, ""))
	assert.True(t, IsUniqueViolation(sqlite, "invoice_number"))
	assert.False(t, IsUniqueViolation(fmt.Errorf("connection refused"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}
