package engine

import (
	"fmt"

	"github.com/bevora/distops/internal/domain"
)

const anomalyTypeStockError = "stock_error"

// DetectAnomalies scans inventory snapshots for invalid states. Stock must
// never be negative; any observed negative value is always an anomaly, never
// a valid business state.
func (e *Engine) DetectAnomalies(positions []domain.StockPosition) []domain.AnomalyAlert {
	var alerts []domain.AnomalyAlert
	for _, pos := range positions {
		if pos.CurrentStock < 0 {
			alerts = append(alerts, domain.AnomalyAlert{
				Type:        anomalyTypeStockError,
				Severity:    domain.SeverityHigh,
				ProductName: pos.ProductName,
				Message:     fmt.Sprintf("negative stock observed: %d units", pos.CurrentStock),
				Value:       pos.CurrentStock,
			})
		}
	}
	return alerts
}
