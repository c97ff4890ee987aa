package domain

// ForecastResult is the output of fitting a linear trend to a product's daily
// sales series and projecting it forward. It is computed fresh per request
// and never persisted by the engine.
//
// Confidence is a data-volume heuristic (record count / 50, capped at 0.95),
// not a statistical confidence interval.
type ForecastResult struct {
	ProductID              int64   `json:"product_id"`
	PredictedQtyNext30Days float64 `json:"predicted_qty_next_30_days"`
	Confidence             float64 `json:"confidence"`
	Trend                  Trend   `json:"trend"`
	AvgDailySales          float64 `json:"avg_daily_sales"`
	Slope                  float64 `json:"slope"`
}

// ProductTrend is a summary row for the trending slices of the insight view.
type ProductTrend struct {
	ProductID              int64   `json:"product_id"`
	ProductName            string  `json:"product_name"`
	Slope                  float64 `json:"slope"`
	PredictedQtyNext30Days float64 `json:"predicted_qty_next_30_days"`
}
