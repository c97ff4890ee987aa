package domain

import "time"

// ProductInsight bundles every per-product signal computed in one pass over
// the catalog. A nil Recommendation means the product produced no actionable
// stock-policy output.
type ProductInsight struct {
	Position       StockPosition        `json:"position"`
	Forecast       ForecastResult       `json:"forecast"`
	Recommendation *StockRecommendation `json:"recommendation,omitempty"`
	Anomalies      []AnomalyAlert       `json:"anomalies,omitempty"`
	Pricing        []PricingSuggestion  `json:"pricing,omitempty"`
	RejectedSales  int                  `json:"rejected_sales,omitempty"`
}

// InsightSummary is the composed catalog view: counts plus top-N slices of
// each signal category. It re-derives nothing; every number comes from the
// per-product insights it was composed from.
type InsightSummary struct {
	GeneratedAt           time.Time             `json:"generated_at"`
	ProductsAnalyzed      int                   `json:"products_analyzed"`
	TrendingUpCount       int                   `json:"trending_up_count"`
	TrendingDownCount     int                   `json:"trending_down_count"`
	CriticalStockCount    int                   `json:"critical_stock_count"`
	HighSeverityAnomalies int                   `json:"high_severity_anomalies"`
	TopTrendingUp         []ProductTrend        `json:"top_trending_up"`
	TopTrendingDown       []ProductTrend        `json:"top_trending_down"`
	TopReorders           []StockRecommendation `json:"top_reorders"`
	TopAnomalies          []AnomalyAlert        `json:"top_anomalies"`
	TopPricing            []PricingSuggestion   `json:"top_pricing"`
}
