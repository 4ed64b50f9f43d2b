package models

// TaskType classifies the work an interaction needs from the model.
type TaskType string

const (
	TaskCompaction       TaskType = "compaction"
	TaskSummarization    TaskType = "summarization"
	TaskCoreInteraction  TaskType = "coreInteraction"
	TaskComplexReasoning TaskType = "complexReasoning"
)

// TaskTypes lists every recognized task type.
var TaskTypes = []TaskType{
	TaskCompaction,
	TaskSummarization,
	TaskCoreInteraction,
	TaskComplexReasoning,
}

// Valid reports whether t is a recognized task type.
func (t TaskType) Valid() bool {
	for _, known := range TaskTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InteractionRequest is the unit of work: one simulated agent turn.
// WorldState holds named numeric, boolean, or categorical facts at
// request time; InputIntent is the normalized classification of the
// free-text input, not the raw text itself.
type InteractionRequest struct {
	AgentID           string         `json:"agent_id"`
	SituationCategory string         `json:"situation_category"`
	WorldState        map[string]any `json:"world_state"`
	InputIntent       string         `json:"input_intent"`
	TaskType          TaskType       `json:"task_type"`
	TierOverride      string         `json:"tier_override,omitempty"`
	Prompt            string         `json:"prompt"`
}

// GeneratedContent is what the LLM collaborator returns on success.
type GeneratedContent struct {
	Content      []byte `json:"content"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// InteractionResult is the unified outcome of one processed interaction.
// Cost is zero when the response was served from the store.
type InteractionResult struct {
	Content   []byte  `json:"content"`
	FromCache bool    `json:"from_cache"`
	Signature string  `json:"signature"`
	Tier      string  `json:"tier,omitempty"`
	Cost      float64 `json:"cost"`
	RecordID  string  `json:"record_id,omitempty"`
}
