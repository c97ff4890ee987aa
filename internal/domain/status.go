package domain

// Trend classifies the direction of a fitted demand slope.
type Trend string

const (
	TrendUp               Trend = "up"
	TrendDown             Trend = "down"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// Urgency is the discrete stock-health classification derived from days of stock.
type Urgency string

const (
	UrgencyCritical  Urgency = "critical"
	UrgencyLow       Urgency = "low"
	UrgencyOK        Urgency = "ok"
	UrgencyOverstock Urgency = "overstock"
)

// Severity ranks anomaly alerts.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// EvaluationStatus is the margin-guard verdict for a proposed sale.
type EvaluationStatus string

const (
	EvaluationApproved EvaluationStatus = "approved"
	EvaluationRisky    EvaluationStatus = "risky"
	EvaluationBlocked  EvaluationStatus = "blocked"
)
