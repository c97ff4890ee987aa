// internal/ingest/loader_test.go
package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportColMap() map[string]int {
	return map[string]int{
		"sku":          0,
		"product_name": 1,
		"quantity":     2,
		"unit_price":   3,
		"sold_at":      4,
	}
}

func TestParseRowValid(t *testing.T) {
	row, err := parseRow([]string{"BEV-001", "Cola 330ml", "12", "1.50", "2026-08-27 14:30:00"}, exportColMap())
	require.NoError(t, err)

	assert.Equal(t, "BEV-001", row.SKU)
	assert.Equal(t, "Cola 330ml", row.ProductName)
	assert.Equal(t, 12, row.Quantity)
	assert.InDelta(t, 1.50, row.UnitPrice, 1e-9)
	assert.Equal(t, time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC), row.SoldAt)
}

func TestParseRowDefaultsProductName(t *testing.T) {
	row, err := parseRow([]string{"BEV-002", "", "3", "", "2026-08-27"}, exportColMap())
	require.NoError(t, err)

	assert.Equal(t, "Product BEV-002", row.ProductName)
	assert.Zero(t, row.UnitPrice)
}

func TestParseRowRejections(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"missing sku", []string{"", "Cola", "5", "1.00", "2026-08-27"}},
		{"zero quantity", []string{"BEV-001", "Cola", "0", "1.00", "2026-08-27"}},
		{"negative quantity", []string{"BEV-001", "Cola", "-2", "1.00", "2026-08-27"}},
		{"bad quantity", []string{"BEV-001", "Cola", "lots", "1.00", "2026-08-27"}},
		{"bad timestamp", []string{"BEV-001", "Cola", "5", "1.00", "yesterday"}},
		{"missing timestamp", []string{"BEV-001", "Cola", "5", "1.00", ""}},
		{"bad price", []string{"BEV-001", "Cola", "5", "free", "2026-08-27"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRow(tt.record, exportColMap())
			assert.Error(t, err)
		})
	}
}

type stubTxRunner struct {
	called bool
	err    error
}

func (s *stubTxRunner) WithTx(_ context.Context, _ func(tx *sqlx.Tx) error) error {
	s.called = true
	return s.err
}

func writeExport(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadExport_RunsInsideBoundedTransaction(t *testing.T) {
	runner := &stubTxRunner{err: errors.New("pool exhausted")}
	loader := NewLoader(runner)

	path := writeExport(t, "sku,product_name,quantity,unit_price,sold_at\nBEV-001,Cola 330ml,2,1.50,2026-08-27\n")

	_, err := loader.LoadExport(context.Background(), path)
	require.Error(t, err)
	assert.True(t, runner.called)
}

func TestLoadExport_RejectsMissingColumnsBeforeTransaction(t *testing.T) {
	runner := &stubTxRunner{}
	loader := NewLoader(runner)

	path := writeExport(t, "sku,product_name\nBEV-001,Cola 330ml\n")

	_, err := loader.LoadExport(context.Background(), path)
	assert.Error(t, err)
	assert.False(t, runner.called)
}

func TestParseSoldAtFormats(t *testing.T) {
	for _, raw := range []string{
		"2026-08-27T14:30:00Z",
		"2026-08-27 14:30:00",
		"2026-08-27",
	} {
		_, err := parseSoldAt(raw)
		assert.NoError(t, err, raw)
	}
}
