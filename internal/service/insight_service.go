package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bevora/distops/internal/cache"
	"github.com/bevora/distops/internal/domain"
	"github.com/bevora/distops/internal/engine"
	"github.com/bevora/distops/internal/repository"
)

// InsightService runs the analytics engine across the active catalog. All
// data is fetched here and handed to the engine; the engine itself performs
// no I/O, which is what lets the per-product work fan out freely.
type InsightService struct {
	ledger      repository.SalesLedger
	inventory   repository.Inventory
	engine      *engine.Engine
	cache       cache.InsightCache
	catalogCap  int
	workerLimit int
}

func NewInsightService(
	ledger repository.SalesLedger,
	inventory repository.Inventory,
	eng *engine.Engine,
	cacheImpl cache.InsightCache,
	catalogCap, workerLimit int,
) *InsightService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopInsightCache()
	}
	if catalogCap <= 0 {
		catalogCap = 100
	}
	if workerLimit <= 0 {
		workerLimit = 8
	}
	return &InsightService{
		ledger:      ledger,
		inventory:   inventory,
		engine:      eng,
		cache:       cacheImpl,
		catalogCap:  catalogCap,
		workerLimit: workerLimit,
	}
}

// Summary composes the catalog insight view, serving from cache when a
// summary for today's data is still fresh.
func (s *InsightService) Summary(ctx context.Context) (*domain.InsightSummary, error) {
	now := time.Now()

	if summary, ok, err := s.cache.GetSummary(ctx, now, s.catalogCap); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("insights: cache get summary failed")
	}

	insights, err := s.analyzeCatalog(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := s.engine.ComposeSummary(insights, now)

	if err := s.cache.SetSummary(ctx, now, s.catalogCap, &summary); err != nil {
		log.Warn().Err(err).Msg("insights: cache set summary failed")
	}

	return &summary, nil
}

// ProductForecast computes a fresh demand forecast for a single product.
// days overrides the lookback window; non-positive means the policy default.
func (s *InsightService) ProductForecast(ctx context.Context, productID int64, days int) (*domain.ForecastResult, error) {
	if days <= 0 {
		days = s.engine.Policy().LookbackDays
	}

	now := time.Now()
	windowStart := s.engine.WindowStart(now, days)
	windowEnd := windowStart.AddDate(0, 0, days)

	records, err := s.ledger.SalesBetween(ctx, productID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("fetching sales history: %w", err)
	}

	series, rejected := s.engine.AggregateDaily(records, windowStart, days)
	if len(rejected) > 0 {
		log.Warn().Int64("product_id", productID).Int("count", len(rejected)).
			Msg("insights: sale records outside lookback window")
	}

	// Only in-window records count toward the forecast gate and confidence.
	fc := s.engine.Forecast(productID, series, len(records)-len(rejected))
	return &fc, nil
}

// Product returns the full insight bundle for a single product: position,
// forecast, recommendation, anomalies and pricing in one pass.
func (s *InsightService) Product(ctx context.Context, productID int64) (*domain.ProductInsight, error) {
	pos, err := s.inventory.Position(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetching position for product %d: %w", productID, err)
	}

	ins, err := s.productInsight(ctx, *pos, time.Now())
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

// Reorders returns every actionable stock recommendation, most urgent first.
func (s *InsightService) Reorders(ctx context.Context) ([]domain.StockRecommendation, error) {
	insights, err := s.analyzeCatalog(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	recs := make([]domain.StockRecommendation, 0)
	for _, ins := range insights {
		if ins.Recommendation != nil {
			recs = append(recs, *ins.Recommendation)
		}
	}
	engine.SortRecommendations(recs)
	return recs, nil
}

// Anomalies returns the invalid inventory states observed across the catalog.
func (s *InsightService) Anomalies(ctx context.Context) ([]domain.AnomalyAlert, error) {
	positions, err := s.activePositions(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return s.engine.DetectAnomalies(positions), nil
}

// Pricing returns the directional price suggestions for the catalog.
func (s *InsightService) Pricing(ctx context.Context) ([]domain.PricingSuggestion, error) {
	insights, err := s.analyzeCatalog(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.PricingSuggestion, 0)
	for _, ins := range insights {
		suggestions = append(suggestions, ins.Pricing...)
	}
	return suggestions, nil
}

// analyzeCatalog fans the per-product pipeline out over the active catalog
// and joins before returning: fetch history, aggregate, forecast, classify.
// Products are independent, so the only bound is the worker limit protecting
// the database pool.
func (s *InsightService) analyzeCatalog(ctx context.Context, now time.Time) ([]domain.ProductInsight, error) {
	positions, err := s.activePositions(ctx, now)
	if err != nil {
		return nil, err
	}

	insights := make([]domain.ProductInsight, len(positions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit)

	for i, pos := range positions {
		g.Go(func() error {
			ins, err := s.productInsight(gctx, pos, now)
			if err != nil {
				return err
			}
			insights[i] = ins
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return insights, nil
}

func (s *InsightService) activePositions(ctx context.Context, now time.Time) ([]domain.StockPosition, error) {
	windowStart := s.engine.WindowStart(now, 0)

	ids, err := s.ledger.RecentlyActiveProducts(ctx, windowStart, s.catalogCap)
	if err != nil {
		return nil, fmt.Errorf("fetching active products: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	positions, err := s.inventory.Positions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching stock positions: %w", err)
	}
	return positions, nil
}

func (s *InsightService) productInsight(ctx context.Context, pos domain.StockPosition, now time.Time) (domain.ProductInsight, error) {
	days := s.engine.Policy().LookbackDays
	windowStart := s.engine.WindowStart(now, 0)
	windowEnd := windowStart.AddDate(0, 0, days)

	records, err := s.ledger.SalesBetween(ctx, pos.ProductID, windowStart, windowEnd)
	if err != nil {
		return domain.ProductInsight{}, fmt.Errorf("fetching sales for product %d: %w", pos.ProductID, err)
	}

	series, rejected := s.engine.AggregateDaily(records, windowStart, days)
	if len(rejected) > 0 {
		log.Warn().Int64("product_id", pos.ProductID).Int("count", len(rejected)).
			Msg("insights: sale records outside lookback window")
	}

	// Only in-window records count toward the forecast gate and confidence.
	fc := s.engine.Forecast(pos.ProductID, series, len(records)-len(rejected))

	ins := domain.ProductInsight{
		Position:      pos,
		Forecast:      fc,
		Anomalies:     s.engine.DetectAnomalies([]domain.StockPosition{pos}),
		RejectedSales: len(rejected),
	}

	if rec, ok := s.engine.Recommend(pos, fc); ok {
		ins.Recommendation = &rec
		ins.Pricing = s.engine.SuggestPricing([]domain.StockRecommendation{rec})
	}

	return ins, nil
}
