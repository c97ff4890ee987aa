package engine

import (
	"sort"
	"time"

	"github.com/bevora/distops/internal/domain"
)

// ComposeSummary fans the per-product insights into the catalog summary view.
// Pure composition: counts and top-N slices only, nothing is re-derived.
func (e *Engine) ComposeSummary(insights []domain.ProductInsight, generatedAt time.Time) domain.InsightSummary {
	summary := domain.InsightSummary{
		GeneratedAt:      generatedAt,
		ProductsAnalyzed: len(insights),
	}

	var up, down []domain.ProductTrend
	var reorders []domain.StockRecommendation

	for _, ins := range insights {
		switch ins.Forecast.Trend {
		case domain.TrendUp:
			summary.TrendingUpCount++
			up = append(up, domain.ProductTrend{
				ProductID:              ins.Position.ProductID,
				ProductName:            ins.Position.ProductName,
				Slope:                  ins.Forecast.Slope,
				PredictedQtyNext30Days: ins.Forecast.PredictedQtyNext30Days,
			})
		case domain.TrendDown:
			summary.TrendingDownCount++
			down = append(down, domain.ProductTrend{
				ProductID:              ins.Position.ProductID,
				ProductName:            ins.Position.ProductName,
				Slope:                  ins.Forecast.Slope,
				PredictedQtyNext30Days: ins.Forecast.PredictedQtyNext30Days,
			})
		}

		if ins.Recommendation != nil {
			reorders = append(reorders, *ins.Recommendation)
			if ins.Recommendation.Urgency == domain.UrgencyCritical {
				summary.CriticalStockCount++
			}
		}

		for _, alert := range ins.Anomalies {
			if alert.Severity == domain.SeverityHigh {
				summary.HighSeverityAnomalies++
			}
			summary.TopAnomalies = append(summary.TopAnomalies, alert)
		}

		summary.TopPricing = append(summary.TopPricing, ins.Pricing...)
	}

	// Steepest movers first.
	sort.Slice(up, func(i, j int) bool { return up[i].Slope > up[j].Slope })
	sort.Slice(down, func(i, j int) bool { return down[i].Slope < down[j].Slope })
	// Most urgent reorders first.
	sort.Slice(reorders, func(i, j int) bool { return reorders[i].DaysOfStock < reorders[j].DaysOfStock })

	summary.TopTrendingUp = topTrends(up, e.policy.TopN)
	summary.TopTrendingDown = topTrends(down, e.policy.TopN)
	summary.TopReorders = topRecs(reorders, e.policy.TopN)
	if len(summary.TopAnomalies) > e.policy.TopN {
		summary.TopAnomalies = summary.TopAnomalies[:e.policy.TopN]
	}
	if len(summary.TopPricing) > e.policy.TopN {
		summary.TopPricing = summary.TopPricing[:e.policy.TopN]
	}

	return summary
}

// SortRecommendations orders stock recommendations most urgent first
// (ascending days of stock).
func SortRecommendations(recs []domain.StockRecommendation) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].DaysOfStock < recs[j].DaysOfStock })
}

func topTrends(trends []domain.ProductTrend, n int) []domain.ProductTrend {
	if len(trends) > n {
		return trends[:n]
	}
	return trends
}

func topRecs(recs []domain.StockRecommendation, n int) []domain.StockRecommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
