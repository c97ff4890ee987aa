package engine

// Policy holds every tunable threshold used by the analytics engine. These
// are business policy, not derived constants; the defaults below are the
// values operations has run on. Overrides come in through config.
type Policy struct {
	// LookbackDays is the sales-history window the daily series covers.
	LookbackDays int
	// ForecastHorizonDays is how far the fitted trend is projected.
	ForecastHorizonDays int
	// MinSaleRecords gates the forecaster: fewer records in the window
	// means no forecast at all, not a zero forecast.
	MinSaleRecords int
	// SlopeThreshold separates up/down from stable, in raw units/day.
	// The same threshold applies to every product regardless of volume.
	SlopeThreshold float64
	// ConfidenceDivisor and ConfidenceCap shape the data-volume heuristic
	// min(cap, records/divisor).
	ConfidenceDivisor float64
	ConfidenceCap     float64
	// MinAvgDailySales excludes near-dead products from stock policy,
	// where days-of-stock division is meaningless.
	MinAvgDailySales float64
	// Urgency breakpoints in days of stock.
	CriticalDays  int
	LowDays       int
	OverstockDays int
	// ReorderCoverDays is the safety cover behind the reorder point; the
	// order target is twice that.
	ReorderCoverDays int
	// Markdown/markup factors for the pricing advisor.
	OverstockMarkdown float64
	CriticalMarkup    float64
	// MinMarginPercent is the margin-guard floor (10 means 10%), applied
	// when the caller does not set one.
	MinMarginPercent float64
	// AggressiveDiscountRatio flags discounts that consume more than this
	// share of the undiscounted profit.
	AggressiveDiscountRatio float64
	// TopN bounds every slice in the composed insight summary.
	TopN int
}

// DefaultPolicy returns the thresholds currently in effect.
func DefaultPolicy() Policy {
	return Policy{
		LookbackDays:            60,
		ForecastHorizonDays:     30,
		MinSaleRecords:          5,
		SlopeThreshold:          0.05,
		ConfidenceDivisor:       50,
		ConfidenceCap:           0.95,
		MinAvgDailySales:        0.1,
		CriticalDays:            7,
		LowDays:                 14,
		OverstockDays:           60,
		ReorderCoverDays:        14,
		OverstockMarkdown:       0.90,
		CriticalMarkup:          1.05,
		MinMarginPercent:        10,
		AggressiveDiscountRatio: 0.5,
		TopN:                    10,
	}
}

// Engine evaluates sales and inventory signals against a fixed policy. All
// methods are pure and safe for concurrent use.
type Engine struct {
	policy Policy
}

// New creates an engine with the given policy. Zero-valued threshold fields
// are filled from DefaultPolicy so partial overrides stay safe.
func New(policy Policy) *Engine {
	def := DefaultPolicy()
	if policy.LookbackDays <= 0 {
		policy.LookbackDays = def.LookbackDays
	}
	if policy.ForecastHorizonDays <= 0 {
		policy.ForecastHorizonDays = def.ForecastHorizonDays
	}
	if policy.MinSaleRecords <= 0 {
		policy.MinSaleRecords = def.MinSaleRecords
	}
	if policy.SlopeThreshold <= 0 {
		policy.SlopeThreshold = def.SlopeThreshold
	}
	if policy.ConfidenceDivisor <= 0 {
		policy.ConfidenceDivisor = def.ConfidenceDivisor
	}
	if policy.ConfidenceCap <= 0 {
		policy.ConfidenceCap = def.ConfidenceCap
	}
	if policy.MinAvgDailySales <= 0 {
		policy.MinAvgDailySales = def.MinAvgDailySales
	}
	if policy.CriticalDays <= 0 {
		policy.CriticalDays = def.CriticalDays
	}
	if policy.LowDays <= 0 {
		policy.LowDays = def.LowDays
	}
	if policy.OverstockDays <= 0 {
		policy.OverstockDays = def.OverstockDays
	}
	if policy.ReorderCoverDays <= 0 {
		policy.ReorderCoverDays = def.ReorderCoverDays
	}
	if policy.OverstockMarkdown <= 0 {
		policy.OverstockMarkdown = def.OverstockMarkdown
	}
	if policy.CriticalMarkup <= 0 {
		policy.CriticalMarkup = def.CriticalMarkup
	}
	if policy.MinMarginPercent <= 0 {
		policy.MinMarginPercent = def.MinMarginPercent
	}
	if policy.AggressiveDiscountRatio <= 0 {
		policy.AggressiveDiscountRatio = def.AggressiveDiscountRatio
	}
	if policy.TopN <= 0 {
		policy.TopN = def.TopN
	}
	return &Engine{policy: policy}
}

// Policy returns the thresholds the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}
