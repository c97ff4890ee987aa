package engine

import (
	"fmt"

	"github.com/bevora/distops/internal/domain"
)

// SuggestPricing turns reorder urgency into directional price nudges:
// markdown to liquidate overstock, markup where stock is tight and demand
// high. Low and ok urgencies produce nothing, and products without a known
// positive price are skipped.
func (e *Engine) SuggestPricing(recs []domain.StockRecommendation) []domain.PricingSuggestion {
	var suggestions []domain.PricingSuggestion
	for _, rec := range recs {
		if rec.UnitPrice <= 0 {
			continue
		}

		switch rec.Urgency {
		case domain.UrgencyOverstock:
			suggestions = append(suggestions, domain.PricingSuggestion{
				ProductID:      rec.ProductID,
				ProductName:    rec.ProductName,
				CurrentPrice:   rec.UnitPrice,
				SuggestedPrice: round2(rec.UnitPrice * e.policy.OverstockMarkdown),
				Reason:         "excess stock: discount to accelerate rotation",
				PotentialImpact: fmt.Sprintf("frees capital tied in %d days of stock",
					rec.DaysOfStock),
			})
		case domain.UrgencyCritical:
			suggestions = append(suggestions, domain.PricingSuggestion{
				ProductID:      rec.ProductID,
				ProductName:    rec.ProductName,
				CurrentPrice:   rec.UnitPrice,
				SuggestedPrice: round2(rec.UnitPrice * e.policy.CriticalMarkup),
				Reason:         "high demand with tight stock: protect margin",
				PotentialImpact: fmt.Sprintf("slows depletion, %d days of cover left",
					rec.DaysOfStock),
			})
		}
	}
	return suggestions
}
