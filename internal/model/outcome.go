package model

import "time"

// --- Submission Outcomes ---

type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateSuccess    SubmissionState = "success"
	StateFailure    SubmissionState = "failure"
)

// Outcome is the displayed status of the latest submission. Seq is the
// request sequence token the outcome belongs to.
type Outcome struct {
	Seq     uint64          `json:"seq"`
	State   SubmissionState `json:"state"`
	Message string          `json:"message,omitempty"`
	At      time.Time       `json:"at"`
}

func (o Outcome) Failed() bool { return o.State == StateFailure }
