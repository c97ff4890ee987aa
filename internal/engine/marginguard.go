package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bevora/distops/internal/domain"
)

var (
	one        = decimal.NewFromInt(1)
	oneHundred = decimal.NewFromInt(100)
)

// EvaluateDiscount computes the realized economics of a proposed discounted
// sale and classifies it as approved, risky or blocked. The function is pure:
// the returned alerts are data for the caller to dispatch, and evaluating the
// same input twice yields the identical result.
//
// Returns an error only for invalid input (negative amounts, fractions
// outside [0,1]); every degenerate arithmetic case is expressed in the result
// itself, never as NaN or infinity.
func (e *Engine) EvaluateDiscount(in domain.DiscountEvaluationInput) (domain.EvaluationResult, error) {
	if err := in.Validate(); err != nil {
		return domain.EvaluationResult{}, err
	}

	minMargin := in.MinAcceptableMargin
	if minMargin.IsZero() {
		minMargin = decimal.NewFromFloat(e.policy.MinMarginPercent)
	}

	// 1. Realized economics of the discounted sale.
	finalPrice := in.SalesPrice.Mul(one.Sub(in.DiscountPercent))
	totalCommission := finalPrice.Mul(in.PaymentCommission)
	totalTax := finalPrice.Mul(in.TaxPercent)
	totalRealCost := in.ProductCost.Add(totalCommission).Add(totalTax).Add(in.OperationalCosts)
	netProfit := finalPrice.Sub(totalRealCost)

	// 2. Margin on cost. Undefined for zero-cost products; flagged rather
	// than divided.
	metrics := domain.EvaluationMetrics{
		FinalPrice:      finalPrice,
		TotalCommission: totalCommission,
		TotalTax:        totalTax,
		TotalRealCost:   totalRealCost,
		NetProfit:       netProfit,
	}
	if in.ProductCost.IsPositive() {
		metrics.RealMarginPercent = netProfit.Div(in.ProductCost).Mul(oneHundred)
		metrics.MarginComputable = true
	}

	// 3. Verdict, first match wins.
	var (
		status domain.EvaluationStatus
		alerts []string
	)
	switch {
	case netProfit.IsNegative():
		status = domain.EvaluationBlocked
		alerts = append(alerts, fmt.Sprintf(
			"sale at a loss: net profit %s after commission, tax and costs",
			netProfit.StringFixed(2)))
	case metrics.MarginComputable && metrics.RealMarginPercent.LessThan(minMargin):
		status = domain.EvaluationRisky
		alerts = append(alerts, fmt.Sprintf(
			"real margin %s%% is below the required minimum of %s%%",
			metrics.RealMarginPercent.StringFixed(2), minMargin.StringFixed(2)))
	default:
		status = domain.EvaluationApproved
	}

	// 4. Aggressive-discount check is alert-only; it never downgrades the
	// verdict on its own.
	originalProfit := in.SalesPrice.Sub(
		in.ProductCost.
			Add(in.SalesPrice.Mul(in.PaymentCommission)).
			Add(in.SalesPrice.Mul(in.TaxPercent)).
			Add(in.OperationalCosts))
	discountAmount := in.SalesPrice.Mul(in.DiscountPercent)
	ratio := decimal.NewFromFloat(e.policy.AggressiveDiscountRatio)
	if originalProfit.IsPositive() && discountAmount.GreaterThan(originalProfit.Mul(ratio)) {
		alerts = append(alerts, fmt.Sprintf(
			"aggressive discount: %s of the price gives away more than %s%% of the undiscounted profit",
			discountAmount.StringFixed(2), ratio.Mul(oneHundred).StringFixed(0)))
	}

	return domain.EvaluationResult{
		Status:          status,
		Alerts:          alerts,
		Metrics:         metrics,
		Recommendations: e.deriveRecommendations(in),
	}, nil
}

// deriveRecommendations solves for the discount and price at which net profit
// is exactly zero, holding commission, tax and costs fixed.
func (e *Engine) deriveRecommendations(in domain.DiscountEvaluationInput) domain.MarginRecommendations {
	rec := domain.MarginRecommendations{
		MaxSafeDiscountPercent: decimal.Zero,
		MinSafePrice:           decimal.Zero,
	}

	fixedCosts := in.ProductCost.Add(in.OperationalCosts)
	// keep is the fraction of the price the seller keeps after commission
	// and tax. At or below zero no price can break even.
	keep := one.Sub(in.PaymentCommission).Sub(in.TaxPercent)

	denominator := in.SalesPrice.Mul(keep)
	if denominator.IsPositive() {
		maxSafe := one.Sub(fixedCosts.Div(denominator))
		if maxSafe.IsNegative() {
			maxSafe = decimal.Zero
		}
		rec.MaxSafeDiscountPercent = maxSafe
	}

	if keep.IsPositive() {
		rec.MinSafePrice = fixedCosts.Div(keep)
		rec.PriceComputable = true
		rec.Alternatives = []string{
			fmt.Sprintf("cap the discount at %s%% to stay at break-even",
				rec.MaxSafeDiscountPercent.Mul(oneHundred).StringFixed(2)),
			fmt.Sprintf("never price below %s for this cost structure",
				rec.MinSafePrice.StringFixed(2)),
		}
	} else {
		rec.Alternatives = []string{
			"commission plus tax consume the entire price: renegotiate the payment method or review the tax setup",
		}
	}

	return rec
}
