// internal/repository/sales_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bevora/distops/internal/domain"
)

// SalesLedger is the read-only view of the sales history the engine consumes.
// The ledger is owned by the order pipeline; this layer only queries it.
type SalesLedger interface {
	SalesBetween(ctx context.Context, productID int64, from, to time.Time) ([]domain.SaleRecord, error)
	RecentlyActiveProducts(ctx context.Context, since time.Time, limit int) ([]int64, error)
}

type salesRepository struct {
	db *sqlx.DB
}

func NewSalesRepository(db *sqlx.DB) SalesLedger {
	return &salesRepository{db: db}
}

func (r *salesRepository) SalesBetween(ctx context.Context, productID int64, from, to time.Time) ([]domain.SaleRecord, error) {
	query := `
		SELECT product_id, quantity, occurred_at
		FROM sale_items
		WHERE product_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at
	`

	var records []domain.SaleRecord
	if err := r.db.SelectContext(ctx, &records, query, productID, from, to); err != nil {
		return nil, fmt.Errorf("error getting sales for product %d: %w", productID, err)
	}

	return records, nil
}

// RecentlyActiveProducts returns the ids of the products with the highest
// sale volume since the given time, capping how much of the catalog one
// insight request touches.
func (r *salesRepository) RecentlyActiveProducts(ctx context.Context, since time.Time, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT product_id
		FROM sale_items
		WHERE occurred_at >= $1
		GROUP BY product_id
		ORDER BY SUM(quantity) DESC
		LIMIT $2
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, since, limit); err != nil {
		return nil, fmt.Errorf("error getting active products: %w", err)
	}

	return ids, nil
}

// Inventory is the read-only view of current stock positions and prices.
type Inventory interface {
	Position(ctx context.Context, productID int64) (*domain.StockPosition, error)
	Positions(ctx context.Context, productIDs []int64) ([]domain.StockPosition, error)
}

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) Inventory {
	return &inventoryRepository{db: db}
}

const positionColumns = `
	p.id AS product_id,
	p.sku,
	p.name AS product_name,
	COALESCE(sl.current_stock, 0) AS current_stock,
	p.unit_price
`

func (r *inventoryRepository) Position(ctx context.Context, productID int64) (*domain.StockPosition, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM products p
		LEFT JOIN stock_levels sl ON sl.product_id = p.id
		WHERE p.id = $1
	`

	var pos domain.StockPosition
	if err := r.db.GetContext(ctx, &pos, query, productID); err != nil {
		return nil, fmt.Errorf("error getting position for product %d: %w", productID, err)
	}

	return &pos, nil
}

func (r *inventoryRepository) Positions(ctx context.Context, productIDs []int64) ([]domain.StockPosition, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + positionColumns + `
		FROM products p
		LEFT JOIN stock_levels sl ON sl.product_id = p.id
		WHERE p.id = ANY($1::bigint[])
	`

	var positions []domain.StockPosition
	if err := r.db.SelectContext(ctx, &positions, query, pq.Array(productIDs)); err != nil {
		return nil, fmt.Errorf("error getting positions: %w", err)
	}

	return positions, nil
}
