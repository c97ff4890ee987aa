package domain

import "time"

// SaleRecord is a single time-stamped sale line item read from the sales
// ledger. The engine never mutates these.
type SaleRecord struct {
	ProductID  int64     `json:"product_id" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}

// DayQuantity is one bucket of a daily quantity series.
type DayQuantity struct {
	Day      int `json:"day"`
	Quantity int `json:"quantity"`
}

// DailySeries is a gapless daily quantity series covering a fixed lookback
// window. Days without sales are present with quantity zero.
type DailySeries []DayQuantity

// Total returns the sum of all daily quantities.
func (s DailySeries) Total() int {
	total := 0
	for _, d := range s {
		total += d.Quantity
	}
	return total
}

// StockPosition is a point-in-time inventory snapshot for one product.
// CurrentStock may be observed negative; that is itself an anomaly, never a
// valid business state.
type StockPosition struct {
	ProductID    int64   `json:"product_id" db:"product_id"`
	SKU          string  `json:"sku" db:"sku"`
	ProductName  string  `json:"product_name" db:"product_name"`
	CurrentStock int     `json:"current_stock" db:"current_stock"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
}

// StockRecommendation is an actionable reorder decision for one product.
// Products whose cover is healthy are not surfaced at all.
type StockRecommendation struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	CurrentStock      int     `json:"current_stock"`
	UnitPrice         float64 `json:"unit_price"`
	AvgDailySales     float64 `json:"avg_daily_sales"`
	DaysOfStock       int     `json:"days_of_stock"`
	ReorderPoint      int     `json:"reorder_point"`
	SuggestedOrderQty int     `json:"suggested_order_qty"`
	Urgency           Urgency `json:"urgency"`
}

// AnomalyAlert flags an invalid inventory state observed in a snapshot.
type AnomalyAlert struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	ProductName string   `json:"product_name"`
	Message     string   `json:"message"`
	Value       int      `json:"value"`
}

// PricingSuggestion is a directional price nudge derived from stock urgency.
// No elasticity model is involved.
type PricingSuggestion struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	CurrentPrice    float64 `json:"current_price"`
	SuggestedPrice  float64 `json:"suggested_price"`
	Reason          string  `json:"reason"`
	PotentialImpact string  `json:"potential_impact"`
}
