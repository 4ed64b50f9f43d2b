package models

// TierPricing defines per-1M-token costs for a model tier.
type TierPricing struct {
	Tier        string  `json:"tier" yaml:"tier"`
	InputPer1M  float64 `json:"input_per_1m" yaml:"input_per_1m"`
	OutputPer1M float64 `json:"output_per_1m" yaml:"output_per_1m"`
}

// CostEstimate is an upfront forecast for a batch of interactions.
// Expected assumes the cache hit rate holds, Min is the best case
// with caching outperforming it, and Max assumes every interaction
// misses the cache.
type CostEstimate struct {
	Expected     float64 `json:"expected"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Tier         string  `json:"tier"`
	Interactions int     `json:"interactions"`
	HitRate      float64 `json:"hit_rate"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
}
