package models

import "time"

// LedgerEntry records one interaction's cache outcome and cost.
// Hits carry zero cost and zero token counts.
type LedgerEntry struct {
	ID           string    `json:"id"`
	Signature    string    `json:"signature"`
	Hit          bool      `json:"hit"`
	Tier         string    `json:"tier,omitempty"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// LedgerSummary aggregates ledger entries across a period.
type LedgerSummary struct {
	Interactions int64   `json:"interactions"`
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	HitRate      float64 `json:"hit_rate"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

// TierUsage aggregates generation spend for a single model tier.
type TierUsage struct {
	Tier         string  `json:"tier"`
	Requests     int64   `json:"requests"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}
