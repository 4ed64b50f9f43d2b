// Package pricing computes dollar costs from per-tier token pricing
// and produces upfront estimates for planned interaction batches.
package pricing

import "github.com/rehash-ai/rehash/pkg/models"

// Fallback pricing for tiers missing from the table, matching the
// standard tier so an unpriced tier is never billed as free.
const (
	fallbackInputPer1M  = 3.0
	fallbackOutputPer1M = 15.0
)

// Table maps tier identifiers to their pricing.
type Table map[string]models.TierPricing

// NewTable builds a Table from a pricing list, last entry winning on
// duplicate tiers.
func NewTable(list []models.TierPricing) Table {
	t := make(Table, len(list))
	for _, p := range list {
		t[p.Tier] = p
	}
	return t
}

// Default returns the built-in pricing table.
func Default() Table {
	return NewTable([]models.TierPricing{
		{Tier: "economy", InputPer1M: 0.25, OutputPer1M: 1.25},
		{Tier: "standard", InputPer1M: 3.0, OutputPer1M: 15.0},
		{Tier: "premium", InputPer1M: 15.0, OutputPer1M: 75.0},
	})
}

// Cost returns the dollar cost of a single generation on a tier.
// Unknown tiers fall back to standard pricing.
func (t Table) Cost(tier string, inputTokens, outputTokens int) float64 {
	p, ok := t[tier]
	if !ok {
		p = models.TierPricing{InputPer1M: fallbackInputPer1M, OutputPer1M: fallbackOutputPer1M}
	}
	return float64(inputTokens)/1e6*p.InputPer1M + float64(outputTokens)/1e6*p.OutputPer1M
}

// Estimate forecasts the cost of a batch of interactions on one tier.
// Expected assumes the given cache hit rate holds; Max assumes every
// interaction misses the cache; Min is the best case where caching
// outperforms the assumed rate, at half the expected figure.
func (t Table) Estimate(tier string, interactions, inputPerCall, outputPerCall int, hitRate float64) models.CostEstimate {
	if hitRate < 0 {
		hitRate = 0
	}
	if hitRate > 1 {
		hitRate = 1
	}

	perMiss := t.Cost(tier, inputPerCall, outputPerCall)
	max := float64(interactions) * perMiss
	expected := max * (1 - hitRate)

	return models.CostEstimate{
		Expected:     expected,
		Min:          expected * 0.5,
		Max:          max,
		Tier:         tier,
		Interactions: interactions,
		HitRate:      hitRate,
		InputTokens:  interactions * inputPerCall,
		OutputTokens: interactions * outputPerCall,
	}
}
