// Package router resolves a task classification to a target model
// tier. Pure configuration lookup: no I/O, no mutable state.
package router

import (
	"errors"
	"fmt"

	"github.com/rehash-ai/rehash/pkg/models"
)

// ErrConfiguration marks an unrecognized task type or a missing tier
// mapping. Misconfiguration surfaces at the call site instead of
// falling back to an arbitrary tier: an accidental fallback to the
// most expensive tier defeats cost optimization, and one to the
// cheapest silently degrades quality.
var ErrConfiguration = errors.New("model routing misconfigured")

// Router maps task types to tier identifiers.
type Router struct {
	tiers map[models.TaskType]string
}

// New builds a Router and exhaustively validates the mapping: every
// recognized task type must have a non-empty tier and no unknown task
// types may appear, so a config defect is caught at load time.
func New(tiers map[models.TaskType]string) (*Router, error) {
	for task := range tiers {
		if !task.Valid() {
			return nil, fmt.Errorf("%w: unknown task type %q", ErrConfiguration, task)
		}
	}
	for _, task := range models.TaskTypes {
		if tiers[task] == "" {
			return nil, fmt.Errorf("%w: no tier for task type %q", ErrConfiguration, task)
		}
	}

	copied := make(map[models.TaskType]string, len(tiers))
	for task, tier := range tiers {
		copied[task] = tier
	}
	return &Router{tiers: copied}, nil
}

// Default returns a Router with the built-in tier assignments: routine
// work on the cheap tier, agent responses and reasoning on the
// standard tier.
func Default() *Router {
	r, _ := New(map[models.TaskType]string{
		models.TaskCompaction:       "economy",
		models.TaskSummarization:    "economy",
		models.TaskCoreInteraction:  "standard",
		models.TaskComplexReasoning: "standard",
	})
	return r
}

// Resolve returns the tier for a task type. An explicit non-empty
// override wins unconditionally; an unrecognized task type is a
// configuration error, never a silent default.
func (r *Router) Resolve(task models.TaskType, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	tier, ok := r.tiers[task]
	if !ok {
		return "", fmt.Errorf("%w: unknown task type %q", ErrConfiguration, task)
	}
	return tier, nil
}

// Tiers returns a copy of the active mapping for diagnostics.
func (r *Router) Tiers() map[models.TaskType]string {
	out := make(map[models.TaskType]string, len(r.tiers))
	for task, tier := range r.tiers {
		out[task] = tier
	}
	return out
}
