// Package budget enforces session token limits so a runaway
// simulation cannot overrun its context window or its spend cap.
package budget

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rehash-ai/rehash/pkg/models"
)

// ErrExhausted is returned when an interaction would exceed the
// session budget.
var ErrExhausted = errors.New("token budget exhausted")

// Rough conversion used when only text length is known.
const charsPerToken = 4

// EstimateTokens approximates the token count of a text.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// DefaultBudget returns the built-in session budget.
func DefaultBudget() models.TokenBudget {
	return models.TokenBudget{
		MaxInputTokens:   100_000,
		MaxSessionTokens: 500_000,
		ReserveTokens:    10_000,
		ContextLimit:     200_000,
		WarningThreshold: 0.8,
	}
}

// Manager tracks cumulative token usage against a session budget.
type Manager struct {
	mu     sync.Mutex
	budget models.TokenBudget
	usage  models.TokenUsage
	logger *zap.Logger
}

// New creates a Manager. Zero-valued budget fields take the defaults.
func New(budget models.TokenBudget, logger *zap.Logger) *Manager {
	def := DefaultBudget()
	if budget.MaxInputTokens <= 0 {
		budget.MaxInputTokens = def.MaxInputTokens
	}
	if budget.MaxSessionTokens <= 0 {
		budget.MaxSessionTokens = def.MaxSessionTokens
	}
	if budget.ReserveTokens <= 0 {
		budget.ReserveTokens = def.ReserveTokens
	}
	if budget.ContextLimit <= 0 {
		budget.ContextLimit = def.ContextLimit
	}
	if budget.WarningThreshold <= 0 || budget.WarningThreshold > 1 {
		budget.WarningThreshold = def.WarningThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{budget: budget, logger: logger}
}

// Check evaluates whether an interaction with the given estimated
// input fits the budget. It does not reserve tokens; call RecordUsage
// with actual counts after generation.
func (m *Manager) Check(estimatedInput int) models.BudgetDecision {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := models.BudgetDecision{Allowed: true, Usage: m.usage}

	if estimatedInput > m.budget.MaxInputTokens {
		d.Allowed = false
		d.NeedsCompaction = true
		d.Reason = fmt.Sprintf("input tokens (%d) exceed per-request max (%d)", estimatedInput, m.budget.MaxInputTokens)
		return d
	}

	if estimatedInput > m.budget.ContextLimit-m.budget.ReserveTokens {
		d.Allowed = false
		d.NeedsCompaction = true
		d.Reason = fmt.Sprintf("would exceed context limit (%d)", m.budget.ContextLimit)
		return d
	}

	projected := m.usage.Total() + int64(estimatedInput)
	if projected > m.budget.MaxSessionTokens {
		d.Allowed = false
		d.Reason = fmt.Sprintf("would exceed session budget (%d)", m.budget.MaxSessionTokens)
		return d
	}

	if float64(projected) >= m.budget.WarningThreshold*float64(m.budget.MaxSessionTokens) {
		d.Warning = true
		d.Reason = fmt.Sprintf("approaching session budget (%.0f%% used)",
			float64(projected)/float64(m.budget.MaxSessionTokens)*100)
		m.logger.Warn("token budget warning", zap.String("reason", d.Reason))
	}
	return d
}

// RecordUsage adds an interaction's actual token counts.
func (m *Manager) RecordUsage(inputTokens, outputTokens int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage.InputTokens += int64(inputTokens)
	m.usage.OutputTokens += int64(outputTokens)
	m.usage.Interactions++
}

// Usage returns a snapshot of cumulative consumption.
func (m *Manager) Usage() models.TokenUsage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}

// Remaining returns tokens left in the session budget, never negative.
func (m *Manager) Remaining() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining := m.budget.MaxSessionTokens - m.usage.Total()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears usage tracking for a new session.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage = models.TokenUsage{}
}
