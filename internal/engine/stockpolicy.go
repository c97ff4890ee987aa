package engine

import (
	"math"

	"github.com/bevora/distops/internal/domain"
)

// Recommend combines a stock position with the product's forecast into a
// reorder decision. The second return value is false when the product
// produces no stock-policy output at all: forecasts without enough data and
// products selling below MinAvgDailySales are excluded, since days-of-stock
// is undefined for them. Healthy (ok) products are also not surfaced; only
// actionable urgency states are.
func (e *Engine) Recommend(pos domain.StockPosition, fc domain.ForecastResult) (domain.StockRecommendation, bool) {
	if fc.Trend == domain.TrendInsufficientData || fc.AvgDailySales <= e.policy.MinAvgDailySales {
		return domain.StockRecommendation{}, false
	}

	daysOfStock := int(math.Round(float64(pos.CurrentStock) / fc.AvgDailySales))

	// Urgency is evaluated in priority order: running out beats being
	// overstocked.
	var urgency domain.Urgency
	switch {
	case daysOfStock < e.policy.CriticalDays:
		urgency = domain.UrgencyCritical
	case daysOfStock < e.policy.LowDays:
		urgency = domain.UrgencyLow
	case daysOfStock > e.policy.OverstockDays:
		urgency = domain.UrgencyOverstock
	default:
		urgency = domain.UrgencyOK
	}

	if urgency == domain.UrgencyOK {
		return domain.StockRecommendation{}, false
	}

	// Reorder point covers two weeks of average sales; the order targets
	// four weeks of cover.
	reorderPoint := int(math.Ceil(fc.AvgDailySales * float64(e.policy.ReorderCoverDays)))
	suggestedQty := reorderPoint*2 - pos.CurrentStock
	if suggestedQty < 0 {
		suggestedQty = 0
	}

	return domain.StockRecommendation{
		ProductID:         pos.ProductID,
		ProductName:       pos.ProductName,
		CurrentStock:      pos.CurrentStock,
		UnitPrice:         pos.UnitPrice,
		AvgDailySales:     fc.AvgDailySales,
		DaysOfStock:       daysOfStock,
		ReorderPoint:      reorderPoint,
		SuggestedOrderQty: suggestedQty,
		Urgency:           urgency,
	}, true
}
