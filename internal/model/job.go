package model

import (
	"encoding/json"
	"time"
)

// Job status constants.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// validTransitions maps each status to the set of statuses it may transition to.
// Completed and failed are terminal.
var validTransitions = map[string]map[string]bool{
	StatusPending: {
		StatusRunning: true,
		StatusFailed:  true,
	},
	StatusRunning: {
		StatusCompleted: true,
		StatusFailed:    true,
	},
}

// ValidTransition reports whether transitioning from one status to another is allowed.
func ValidTransition(from, to string) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Terminal reports whether the status is one from which no further
// transitions occur.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// Job represents a single pipeline execution tracked from submission to its
// terminal outcome. Parameters are validated at the API boundary and opaque
// from then on.
type Job struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	PipelineName string          `json:"pipeline_name"`
	Parameters   json.RawMessage `json:"parameters"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	ErrorMessage *string         `json:"error_message"`
}

// Clone returns a deep copy of the job. The store hands out clones so that
// callers can never mutate the canonical record.
func (j *Job) Clone() *Job {
	c := *j
	if j.Parameters != nil {
		c.Parameters = make(json.RawMessage, len(j.Parameters))
		copy(c.Parameters, j.Parameters)
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	if j.ErrorMessage != nil {
		m := *j.ErrorMessage
		c.ErrorMessage = &m
	}
	return &c
}
