package audit

// Outcome is the terminal state of a pending action.
type Outcome string

const (
	OutcomeExecuted  Outcome = "executed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// EntryAction is the flattened action recorded in each entry.
type EntryAction struct {
	Kind     string `json:"kind"`
	Resource string `json:"resource"`
}

// Entry is one line in the hash-chained JSONL audit log.
// All fields are concrete types (no map[string]any) so json.Marshal
// produces a deterministic field order for reproducible hashing.
type Entry struct {
	Timestamp  string      `json:"ts"`
	PlanID     string      `json:"plan_id"`
	ChatID     int64       `json:"chat_id"`
	Action     EntryAction `json:"action"`
	Outcome    Outcome     `json:"outcome"`
	Detail     string      `json:"detail,omitempty"`
	ConfigHash string      `json:"config_hash"`
	PrevHash   string      `json:"prev_hash"`
}
