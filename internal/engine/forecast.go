package engine

import (
	"math"

	"github.com/bevora/distops/internal/domain"
)

// Forecast fits an ordinary least squares trend to the daily series and
// projects demand over the forecast horizon. recordCount is the number of
// underlying sale records in the window, which gates the computation: below
// MinSaleRecords the result is the insufficient-data sentinel and downstream
// consumers must treat it as "no recommendation possible", not a numeric
// zero.
func (e *Engine) Forecast(productID int64, series domain.DailySeries, recordCount int) domain.ForecastResult {
	if recordCount < e.policy.MinSaleRecords {
		return domain.ForecastResult{
			ProductID: productID,
			Trend:     domain.TrendInsufficientData,
		}
	}

	n := len(series)
	slope, intercept := fitLine(series)

	// Project the next horizon days, flooring negative projections at
	// zero: a declining trend cannot return negative units.
	predicted := 0.0
	for i := n; i < n+e.policy.ForecastHorizonDays; i++ {
		predicted += math.Max(0, slope*float64(i)+intercept)
	}

	avg := 0.0
	if n > 0 {
		avg = float64(series.Total()) / float64(n)
	}

	trend := domain.TrendStable
	switch {
	case slope > e.policy.SlopeThreshold:
		trend = domain.TrendUp
	case slope < -e.policy.SlopeThreshold:
		trend = domain.TrendDown
	}

	confidence := math.Min(e.policy.ConfidenceCap, float64(recordCount)/e.policy.ConfidenceDivisor)

	return domain.ForecastResult{
		ProductID:              productID,
		PredictedQtyNext30Days: predicted,
		Confidence:             confidence,
		Trend:                  trend,
		AvgDailySales:          avg,
		Slope:                  slope,
	}
}

// fitLine computes closed-form OLS slope and intercept over (dayIndex,
// quantity) pairs. A degenerate denominator (fewer than two distinct x
// values) yields 0,0.
func fitLine(series domain.DailySeries) (slope, intercept float64) {
	n := float64(len(series))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, d := range series {
		x := float64(d.Day)
		y := float64(d.Quantity)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
