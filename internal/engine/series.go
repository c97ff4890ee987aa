package engine

import (
	"math"
	"time"

	"github.com/bevora/distops/internal/domain"
)

// AggregateDaily buckets sale records into a gapless daily quantity series of
// exactly `days` entries starting at windowStart. Days with no sales are
// zero-filled. Records falling outside the window (clock skew, bad exports)
// are returned in the second value instead of being dropped silently, so the
// caller can log or reject them.
func (e *Engine) AggregateDaily(records []domain.SaleRecord, windowStart time.Time, days int) (domain.DailySeries, []domain.SaleRecord) {
	if days <= 0 {
		days = e.policy.LookbackDays
	}

	totals := make(map[int]int, days)
	var rejected []domain.SaleRecord

	for _, rec := range records {
		// Floor, not truncate: a record shortly before windowStart must
		// land on day -1 and be rejected, not on day 0.
		dayIndex := int(math.Floor(rec.OccurredAt.Sub(windowStart).Hours() / 24))
		if dayIndex < 0 || dayIndex >= days {
			rejected = append(rejected, rec)
			continue
		}
		totals[dayIndex] += rec.Quantity
	}

	series := make(domain.DailySeries, days)
	for i := 0; i < days; i++ {
		series[i] = domain.DayQuantity{Day: i, Quantity: totals[i]}
	}

	return series, rejected
}

// WindowStart returns the beginning of the lookback window for an evaluation
// moment: midnight `days` days before, so the window covers exactly the last
// N full calendar days ending yesterday. A non-positive days falls back to
// the policy lookback.
func (e *Engine) WindowStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = e.policy.LookbackDays
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -days)
}
