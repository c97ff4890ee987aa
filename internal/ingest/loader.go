// internal/ingest/loader.go
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// saleRow is one parsed line of a point-of-sale export.
type saleRow struct {
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   float64
	SoldAt      time.Time
}

// TxRunner runs a function inside a bounded database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// Loader writes parsed sales exports into the ledger. Each export file is
// loaded inside a single transaction so a malformed file never leaves a
// partial day behind.
type Loader struct {
	db TxRunner
}

func NewLoader(db TxRunner) *Loader {
	return &Loader{db: db}
}

// LoadExport parses the CSV at filePath and inserts its sale records,
// creating unknown products on the fly. Returns the number of rows loaded.
func (l *Loader) LoadExport(ctx context.Context, filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, required := range []string{"sku", "quantity", "sold_at"} {
		if _, ok := colMap[required]; !ok {
			return 0, fmt.Errorf("export missing required column %q", required)
		}
	}

	loaded := 0
	skipped := 0
	line := 1

	err = l.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		upsertProduct, err := tx.PreparexContext(ctx, `
			WITH new_product AS (
				INSERT INTO products (sku, name, unit_price, created_at, updated_at)
				VALUES ($1, $2, $3, NOW(), NOW())
				ON CONFLICT (sku) DO UPDATE SET
					name = EXCLUDED.name,
					unit_price = EXCLUDED.unit_price,
					updated_at = NOW()
				RETURNING id
			) SELECT id FROM new_product
			UNION ALL
			SELECT id FROM products WHERE sku = $1
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare product upsert: %w", err)
		}
		defer upsertProduct.Close()

		insertSale, err := tx.PreparexContext(ctx, `
			INSERT INTO sale_items (product_id, quantity, occurred_at, created_at)
			VALUES ($1, $2, $3, NOW())
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare sale insert: %w", err)
		}
		defer insertSale.Close()

		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("error reading record: %w", err)
			}
			line++

			row, err := parseRow(record, colMap)
			if err != nil {
				ingestLog.Warn().Err(err).Str("file", filePath).Int("line", line).Msg("Skipping malformed export row")
				skipped++
				continue
			}

			var productID int64
			if err := upsertProduct.QueryRowContext(ctx, row.SKU, row.ProductName, row.UnitPrice).Scan(&productID); err != nil {
				return fmt.Errorf("failed to ensure product %s: %w", row.SKU, err)
			}

			if _, err := insertSale.ExecContext(ctx, productID, row.Quantity, row.SoldAt); err != nil {
				return fmt.Errorf("failed to insert sale for %s: %w", row.SKU, err)
			}

			loaded++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	ingestLog.Info().
		Str("file", filePath).
		Int("loaded", loaded).
		Int("skipped", skipped).
		Msg("Sales export loaded")

	return loaded, nil
}

// parseRow validates one CSV record against the column map. Rows with an
// empty SKU, a non-positive quantity, or an unparseable timestamp are
// rejected.
func parseRow(record []string, colMap map[string]int) (saleRow, error) {
	field := func(name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	sku := field("sku")
	if sku == "" {
		return saleRow{}, fmt.Errorf("record missing sku")
	}

	quantity, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return saleRow{}, fmt.Errorf("invalid quantity %q: %w", field("quantity"), err)
	}
	if quantity <= 0 {
		return saleRow{}, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	soldAt, err := parseSoldAt(field("sold_at"))
	if err != nil {
		return saleRow{}, err
	}

	productName := field("product_name")
	if productName == "" {
		productName = "Product " + sku
	}

	unitPrice := 0.0
	if raw := field("unit_price"); raw != "" {
		unitPrice, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return saleRow{}, fmt.Errorf("invalid unit_price %q: %w", raw, err)
		}
	}

	return saleRow{
		SKU:         sku,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		SoldAt:      soldAt,
	}, nil
}

// parseSoldAt accepts the timestamp formats the different POS vendors emit.
func parseSoldAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("record missing sold_at")
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable sold_at %q", raw)
}
