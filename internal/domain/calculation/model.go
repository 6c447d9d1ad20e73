package calculation

import "encoding/json"

type Kind string

type Description struct {
	ID          Kind   `json:"id"`
	VerboseName string `json:"verbose_name"`
	Description string `json:"description"`
	IconPath    string `json:"icon_path"`
	Group       string `json:"-"`
	Async       bool   `json:"async"`
}

// Model is a calculation implementation. Calculate must be safe to call from
// several goroutines at once; per-run state lives in the input and output.
type Model interface {
	Calculate(input json.RawMessage) (json.RawMessage, error)
	Describe() Description
}

// Dispatch is the work queue payload of an async run.
type Dispatch struct {
	Kind  Kind   `json:"kind"`
	JobID string `json:"job_id"`
}
