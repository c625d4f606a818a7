package activity

import "time"

// Stage is the converter stage a run was handled by.
type Stage string

const (
	StageExport     Stage = "export"
	StageImport     Stage = "import"
	StageNewProject Stage = "new_project"
	// StageNone marks runs no stage accepted.
	StageNone Stage = "none"
)

// Status is the outcome of a conversion run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// Entry is one conversion run in the history.
type Entry struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Stage     Stage     `json:"stage"`
	Kind      string    `json:"kind,omitempty"`
	Source    string    `json:"source"`
	Target    string    `json:"target,omitempty"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
