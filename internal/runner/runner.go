package runner

import (
	"context"

	"github.com/seqops/helix/internal/model"
)

// Runner is the interface that all execution backends implement. The engine
// resolves a runner by name and hands it one job at a time; many jobs run
// concurrently, so implementations must be safe for concurrent use.
type Runner interface {
	// Run executes the job's pipeline and returns nil on success. A non-nil
	// error marks the job failed with the error text as its error message.
	// The publish callback delivers progress events to stream subscribers;
	// it is never nil.
	Run(ctx context.Context, job *model.Job, publish func(event string)) error

	// Info reports the runner's name and a short description.
	Info() Info
}

// Info describes a registered runner.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
