package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/engine"
	"github.com/bevora/distops/internal/service"
)

// fakeLedger serves canned sale histories keyed by product id.
type fakeLedger struct {
	sales map[int64][]domain.SaleRecord
	order []int64
}

func (f *fakeLedger) SalesBetween(_ context.Context, productID int64, from, to time.Time) ([]domain.SaleRecord, error) {
	return f.sales[productID], nil
}

func (f *fakeLedger) RecentlyActiveProducts(_ context.Context, _ time.Time, limit int) ([]int64, error) {
	if len(f.order) > limit {
		return f.order[:limit], nil
	}
	return f.order, nil
}

type fakeInventory struct {
	positions map[int64]domain.StockPosition
}

func (f *fakeInventory) Position(_ context.Context, productID int64) (*domain.StockPosition, error) {
	pos := f.positions[productID]
	return &pos, nil
}

func (f *fakeInventory) Positions(_ context.Context, productIDs []int64) ([]domain.StockPosition, error) {
	out := make([]domain.StockPosition, 0, len(productIDs))
	for _, id := range productIDs {
		out = append(out, f.positions[id])
	}
	return out, nil
}

// steadySales builds one sale of `qty` units per day across the whole
// lookback window.
func steadySales(productID int64, qty int, now time.Time) []domain.SaleRecord {
	e := engine.New(engine.DefaultPolicy())
	start := e.WindowStart(now, 0)
	days := engine.DefaultPolicy().LookbackDays

	records := make([]domain.SaleRecord, 0, days)
	for i := 0; i < days; i++ {
		records = append(records, domain.SaleRecord{
			ProductID:  productID,
			Quantity:   qty,
			OccurredAt: start.AddDate(0, 0, i).Add(10 * time.Hour),
		})
	}
	return records
}

func newTestInsightService() *service.InsightService {
	now := time.Now()

	ledger := &fakeLedger{
		order: []int64{1, 2, 3},
		sales: map[int64][]domain.SaleRecord{
			// Steady seller with almost no stock left: critical.
			1: steadySales(1, 10, now),
			// Steady seller sitting on a mountain of stock: overstock.
			2: steadySales(2, 2, now),
			// Two lone sales: insufficient data.
			3: {
				{ProductID: 3, Quantity: 1, OccurredAt: now.AddDate(0, 0, -3)},
				{ProductID: 3, Quantity: 1, OccurredAt: now.AddDate(0, 0, -2)},
			},
		},
	}

	inventory := &fakeInventory{
		positions: map[int64]domain.StockPosition{
			1: {ProductID: 1, ProductName: "Cola 330ml", CurrentStock: 30, UnitPrice: 1.2},
			2: {ProductID: 2, ProductName: "Tonic 1L", CurrentStock: 400, UnitPrice: 2.4},
			3: {ProductID: 3, ProductName: "Soda Lima 2L", CurrentStock: -4, UnitPrice: 3.1},
		},
	}

	return service.NewInsightService(ledger, inventory, engine.New(engine.DefaultPolicy()), nil, 50, 4)
}

func TestSummary_ComposesCatalogSignals(t *testing.T) {
	svc := newTestInsightService()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ProductsAnalyzed)
	assert.Equal(t, 1, summary.CriticalStockCount)
	assert.Equal(t, 1, summary.HighSeverityAnomalies)

	// Critical cola outranks the overstocked tonic.
	require.Len(t, summary.TopReorders, 2)
	assert.Equal(t, int64(1), summary.TopReorders[0].ProductID)
	assert.Equal(t, domain.UrgencyCritical, summary.TopReorders[0].Urgency)
	assert.Equal(t, domain.UrgencyOverstock, summary.TopReorders[1].Urgency)

	require.Len(t, summary.TopAnomalies, 1)
	assert.Equal(t, -4, summary.TopAnomalies[0].Value)
}

func TestReorders_OrderedMostUrgentFirst(t *testing.T) {
	svc := newTestInsightService()

	recs, err := svc.Reorders(context.Background())
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Less(t, recs[0].DaysOfStock, recs[1].DaysOfStock)
}

func TestProductForecast_InsufficientHistory(t *testing.T) {
	svc := newTestInsightService()

	fc, err := svc.ProductForecast(context.Background(), 3, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.TrendInsufficientData, fc.Trend)
	assert.Zero(t, fc.PredictedQtyNext30Days)
}

func TestProductForecast_OutOfWindowRecordsDoNotLiftGate(t *testing.T) {
	now := time.Now()

	// Four sales inside the lookback window plus three stamped right now,
	// after the window closed at today's midnight. Only the in-window
	// records may count toward the five-record minimum.
	records := []domain.SaleRecord{
		{ProductID: 7, Quantity: 1, OccurredAt: now.AddDate(0, 0, -5)},
		{ProductID: 7, Quantity: 2, OccurredAt: now.AddDate(0, 0, -4)},
		{ProductID: 7, Quantity: 3, OccurredAt: now.AddDate(0, 0, -3)},
		{ProductID: 7, Quantity: 4, OccurredAt: now.AddDate(0, 0, -2)},
		{ProductID: 7, Quantity: 5, OccurredAt: now},
		{ProductID: 7, Quantity: 6, OccurredAt: now},
		{ProductID: 7, Quantity: 7, OccurredAt: now},
	}

	ledger := &fakeLedger{
		order: []int64{7},
		sales: map[int64][]domain.SaleRecord{7: records},
	}
	inventory := &fakeInventory{
		positions: map[int64]domain.StockPosition{
			7: {ProductID: 7, ProductName: "Agua 500ml", CurrentStock: 50, UnitPrice: 0.8},
		},
	}
	svc := service.NewInsightService(ledger, inventory, engine.New(engine.DefaultPolicy()), nil, 50, 4)

	fc, err := svc.ProductForecast(context.Background(), 7, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.TrendInsufficientData, fc.Trend)
	assert.Zero(t, fc.PredictedQtyNext30Days)
	assert.Zero(t, fc.Confidence)

	// The same gate holds on the catalog path.
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.TopReorders)
}

func TestProduct_BundlesAllSignalsForOneProduct(t *testing.T) {
	svc := newTestInsightService()

	ins, err := svc.Product(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Cola 330ml", ins.Position.ProductName)
	assert.Equal(t, domain.TrendStable, ins.Forecast.Trend)
	require.NotNil(t, ins.Recommendation)
	assert.Equal(t, domain.UrgencyCritical, ins.Recommendation.Urgency)
	require.Len(t, ins.Pricing, 1)
	assert.Greater(t, ins.Pricing[0].SuggestedPrice, ins.Position.UnitPrice)
}

func TestPricing_SuggestsForActionableUrgencies(t *testing.T) {
	svc := newTestInsightService()

	suggestions, err := svc.Pricing(context.Background())
	require.NoError(t, err)

	// Critical markup for the cola, overstock markdown for the tonic.
	require.Len(t, suggestions, 2)
	byProduct := map[int64]domain.PricingSuggestion{}
	for _, s := range suggestions {
		byProduct[s.ProductID] = s
	}
	assert.Greater(t, byProduct[1].SuggestedPrice, byProduct[1].CurrentPrice)
	assert.Less(t, byProduct[2].SuggestedPrice, byProduct[2].CurrentPrice)
}
