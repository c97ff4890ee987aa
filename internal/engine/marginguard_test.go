package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bevora/distops/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// referenceInput is the canonical evaluation scenario: cost 1000, list price
// 2000, 10% discount, 5% commission, 21% tax, 200 operational costs.
func referenceInput() domain.DiscountEvaluationInput {
	return domain.DiscountEvaluationInput{
		ProductCost:       dec("1000"),
		SalesPrice:        dec("2000"),
		DiscountPercent:   dec("0.10"),
		PaymentCommission: dec("0.05"),
		TaxPercent:        dec("0.21"),
		OperationalCosts:  dec("200"),
	}
}

func TestEvaluateDiscount_ApprovedScenario(t *testing.T) {
	e := testEngine()

	result, err := e.EvaluateDiscount(referenceInput())
	require.NoError(t, err)

	assert.Equal(t, domain.EvaluationApproved, result.Status)

	m := result.Metrics
	assert.True(t, m.FinalPrice.Equal(dec("1800")), "final price %s", m.FinalPrice)
	assert.True(t, m.TotalCommission.Equal(dec("90")), "commission %s", m.TotalCommission)
	assert.True(t, m.TotalTax.Equal(dec("378")), "tax %s", m.TotalTax)
	assert.True(t, m.TotalRealCost.Equal(dec("1668")), "real cost %s", m.TotalRealCost)
	assert.True(t, m.NetProfit.Equal(dec("132")), "net profit %s", m.NetProfit)
	require.True(t, m.MarginComputable)
	assert.True(t, m.RealMarginPercent.Equal(dec("13.2")), "margin %s", m.RealMarginPercent)

	// The 200 discount eats more than half of the 280 undiscounted
	// profit, so the approval still carries an aggressive-discount alert.
	require.Len(t, result.Alerts, 1)
	assert.Contains(t, result.Alerts[0], "aggressive discount")
}

func TestEvaluateDiscount_DeepDiscountIsBlocked(t *testing.T) {
	e := testEngine()

	in := referenceInput()
	in.DiscountPercent = dec("0.40")

	result, err := e.EvaluateDiscount(in)
	require.NoError(t, err)

	assert.Equal(t, domain.EvaluationBlocked, result.Status)
	assert.True(t, result.Metrics.NetProfit.IsNegative(), "net profit %s", result.Metrics.NetProfit)
	require.NotEmpty(t, result.Alerts)
	assert.Contains(t, result.Alerts[0], "sale at a loss")
}

func TestEvaluateDiscount_ThinMarginIsRisky(t *testing.T) {
	e := testEngine()

	in := referenceInput()
	in.MinAcceptableMargin = dec("15")

	result, err := e.EvaluateDiscount(in)
	require.NoError(t, err)

	// 13.2% margin clears the 10% default but not a 15% floor.
	assert.Equal(t, domain.EvaluationRisky, result.Status)
	assert.Contains(t, result.Alerts[0], "below the required minimum")
}

func TestEvaluateDiscount_IsIdempotent(t *testing.T) {
	e := testEngine()

	first, err := e.EvaluateDiscount(referenceInput())
	require.NoError(t, err)
	second, err := e.EvaluateDiscount(referenceInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluateDiscount_BreakEvenProperty(t *testing.T) {
	e := testEngine()

	result, err := e.EvaluateDiscount(referenceInput())
	require.NoError(t, err)

	rec := result.Recommendations
	require.True(t, rec.PriceComputable)

	// Re-running at the max safe discount must land on net profit ~ 0.
	atLimit := referenceInput()
	atLimit.DiscountPercent = rec.MaxSafeDiscountPercent
	limitResult, err := e.EvaluateDiscount(atLimit)
	require.NoError(t, err)
	assert.True(t, limitResult.Metrics.NetProfit.Abs().LessThan(dec("0.01")),
		"net profit at break-even discount was %s", limitResult.Metrics.NetProfit)

	// Any strictly deeper discount must lose money.
	beyond := referenceInput()
	beyond.DiscountPercent = rec.MaxSafeDiscountPercent.Add(dec("0.001"))
	beyondResult, err := e.EvaluateDiscount(beyond)
	require.NoError(t, err)
	assert.True(t, beyondResult.Metrics.NetProfit.IsNegative())
	assert.Equal(t, domain.EvaluationBlocked, beyondResult.Status)

	// Selling at the min safe price with no discount also breaks even:
	// minSafePrice = (1000+200) / 0.74.
	assert.True(t, rec.MinSafePrice.Sub(dec("1621.621621621621621")).Abs().LessThan(dec("0.001")),
		"min safe price was %s", rec.MinSafePrice)
}

func TestEvaluateDiscount_ZeroCostMarginNotComputable(t *testing.T) {
	e := testEngine()

	result, err := e.EvaluateDiscount(domain.DiscountEvaluationInput{
		ProductCost: decimal.Zero,
		SalesPrice:  dec("100"),
	})
	require.NoError(t, err)

	assert.False(t, result.Metrics.MarginComputable)
	assert.True(t, result.Metrics.RealMarginPercent.IsZero())
	assert.Equal(t, domain.EvaluationApproved, result.Status)
}

func TestEvaluateDiscount_CommissionPlusTaxAbovePrice(t *testing.T) {
	e := testEngine()

	result, err := e.EvaluateDiscount(domain.DiscountEvaluationInput{
		ProductCost:       dec("10"),
		SalesPrice:        dec("100"),
		PaymentCommission: dec("0.60"),
		TaxPercent:        dec("0.50"),
	})
	require.NoError(t, err)

	// No safe price exists when the seller keeps nothing of the price;
	// the result says so explicitly instead of overflowing.
	assert.Equal(t, domain.EvaluationBlocked, result.Status)
	assert.False(t, result.Recommendations.PriceComputable)
	assert.True(t, result.Recommendations.MaxSafeDiscountPercent.IsZero())
	assert.True(t, result.Recommendations.MinSafePrice.IsZero())
}

func TestEvaluateDiscount_RejectsInvalidInput(t *testing.T) {
	e := testEngine()

	cases := []struct {
		name   string
		mutate func(*domain.DiscountEvaluationInput)
	}{
		{"negative cost", func(in *domain.DiscountEvaluationInput) { in.ProductCost = dec("-1") }},
		{"negative price", func(in *domain.DiscountEvaluationInput) { in.SalesPrice = dec("-5") }},
		{"discount above 1", func(in *domain.DiscountEvaluationInput) { in.DiscountPercent = dec("1.5") }},
		{"negative commission", func(in *domain.DiscountEvaluationInput) { in.PaymentCommission = dec("-0.05") }},
		{"tax above 1", func(in *domain.DiscountEvaluationInput) { in.TaxPercent = dec("1.01") }},
		{"negative operational costs", func(in *domain.DiscountEvaluationInput) { in.OperationalCosts = dec("-20") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := referenceInput()
			tc.mutate(&in)
			_, err := e.EvaluateDiscount(in)
			assert.Error(t, err)
		})
	}
}
