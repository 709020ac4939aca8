package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku",
		"CHECK (quantity >= 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSettlementMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_settlement_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS settlement_records",
		"CREATE TABLE IF NOT EXISTS settlement_line_items",
		"CREATE TABLE IF NOT EXISTS stock_ledger_entries",
		"CREATE TABLE IF NOT EXISTS invoice_counters",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_settlement_records_invoice_number",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestHeldMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_held_transactions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS held_transactions",
		"code TEXT PRIMARY KEY",
		"cart JSONB NOT NULL",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
