package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountEvaluationInput is the cost/price/discount structure of a proposed
// sale, handed to the margin guard before the discount is applied.
// Percentages are fractions in [0,1]; MinAcceptableMargin is a percentage
// (10 means 10%) and falls back to the configured default when zero.
type DiscountEvaluationInput struct {
	ProductCost         decimal.Decimal `json:"product_cost"`
	SalesPrice          decimal.Decimal `json:"sales_price"`
	DiscountPercent     decimal.Decimal `json:"discount_percent"`
	PaymentCommission   decimal.Decimal `json:"payment_method_commission"`
	TaxPercent          decimal.Decimal `json:"tax_percent"`
	OperationalCosts    decimal.Decimal `json:"operational_costs"`
	MinAcceptableMargin decimal.Decimal `json:"min_acceptable_margin"`
}

// ValidationError marks an evaluation input as rejected before any
// arithmetic ran.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate rejects invalid inputs before any arithmetic runs.
func (in DiscountEvaluationInput) Validate() error {
	one := decimal.NewFromInt(1)

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"product_cost", in.ProductCost},
		{"sales_price", in.SalesPrice},
		{"operational_costs", in.OperationalCosts},
		{"min_acceptable_margin", in.MinAcceptableMargin},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return &ValidationError{Field: a.name, Reason: fmt.Sprintf("must be >= 0, got %s", a.value)}
		}
	}

	fractions := []struct {
		name  string
		value decimal.Decimal
	}{
		{"discount_percent", in.DiscountPercent},
		{"payment_method_commission", in.PaymentCommission},
		{"tax_percent", in.TaxPercent},
	}
	for _, f := range fractions {
		if f.value.IsNegative() || f.value.GreaterThan(one) {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be within [0,1], got %s", f.value)}
		}
	}

	return nil
}

// EvaluationMetrics carries the realized economics of the proposed sale.
//
// RealMarginPercent is margin-on-cost (netProfit / productCost), matching how
// the business has always reported it, not margin-on-revenue. When
// MarginComputable is false (productCost == 0) the percent field is zero and
// must be ignored.
type EvaluationMetrics struct {
	FinalPrice        decimal.Decimal `json:"final_price"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	TotalRealCost     decimal.Decimal `json:"total_real_cost"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	RealMarginPercent decimal.Decimal `json:"real_margin_percent"`
	MarginComputable  bool            `json:"margin_computable"`
}

// MarginRecommendations holds the break-even derivations: the largest
// discount and the lowest price at which net profit is exactly zero. When
// PriceComputable is false the commission+tax share is >= 100% of price and
// no safe price exists.
type MarginRecommendations struct {
	MaxSafeDiscountPercent decimal.Decimal `json:"max_safe_discount_percent"`
	MinSafePrice           decimal.Decimal `json:"min_safe_price"`
	PriceComputable        bool            `json:"price_computable"`
	Alternatives           []string        `json:"alternatives"`
}

// EvaluationResult is the margin-guard verdict plus the alert events that
// callers may dispatch to the notification channel. The evaluator itself is
// side-effect free.
type EvaluationResult struct {
	Status          EvaluationStatus      `json:"status"`
	Alerts          []string              `json:"alerts"`
	Metrics         EvaluationMetrics     `json:"metrics"`
	Recommendations MarginRecommendations `json:"recommendations"`
}
