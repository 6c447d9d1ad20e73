package calculation

import "encoding/json"

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateReady   State = "ready"
)

// Job is a user's instance of a model. Sync kinds never touch the flags.
type Job struct {
	ID           string
	User         string
	Kind         Kind
	Input        json.RawMessage
	Output       json.RawMessage
	IsReady      bool
	IsProcessing bool
}

func (j *Job) MarkRunning() {
	j.IsProcessing = true
	j.IsReady = false
}

func (j *Job) MarkReady(output json.RawMessage) {
	j.Output = output
	j.IsReady = true
	j.IsProcessing = false
}

// MarkFailed leaves the job neither ready nor processing, which tells a
// failed run apart from a successful one.
func (j *Job) MarkFailed() {
	j.IsProcessing = false
	j.IsReady = false
}

func (j *Job) State() State {
	switch {
	case j.IsProcessing:
		return StateRunning
	case j.IsReady:
		return StateReady
	default:
		return StateIdle
	}
}
