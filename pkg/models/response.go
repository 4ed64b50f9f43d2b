package models

import "time"

// CachedResponse is one previously generated reply stored under a
// signature. Records are append-only: nothing mutates after insert
// except TimesServed, which the store increments on reuse.
type CachedResponse struct {
	ID           string    `json:"id"`
	Signature    string    `json:"signature"`
	Content      []byte    `json:"content"`
	SourceTier   string    `json:"source_tier"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	UsageCost    float64   `json:"usage_cost"`
	TimesServed  int       `json:"times_served"`
	ProducedAt   time.Time `json:"produced_at"`
}

// StoreStats reports response store size for diagnostics.
type StoreStats struct {
	Signatures int64 `json:"signatures"`
	Records    int64 `json:"records"`
}
