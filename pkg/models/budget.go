package models

// TokenBudget caps token spend for a simulation session.
type TokenBudget struct {
	MaxInputTokens   int     `json:"max_input_tokens" yaml:"max_input_tokens"`
	MaxSessionTokens int64   `json:"max_session_tokens" yaml:"max_session_tokens"`
	ReserveTokens    int     `json:"reserve_tokens" yaml:"reserve_tokens"`
	ContextLimit     int     `json:"context_limit" yaml:"context_limit"`
	WarningThreshold float64 `json:"warning_threshold" yaml:"warning_threshold"`
}

// TokenUsage tracks cumulative token consumption for a session.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	Interactions int64 `json:"interactions"`
}

// Total returns combined input and output tokens.
func (u TokenUsage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// BudgetDecision is the outcome of checking a prospective interaction
// against the session budget.
type BudgetDecision struct {
	Allowed         bool       `json:"allowed"`
	Warning         bool       `json:"warning"`
	NeedsCompaction bool       `json:"needs_compaction"`
	Reason          string     `json:"reason,omitempty"`
	Usage           TokenUsage `json:"usage"`
}
