package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/seqops/helix/internal/model"
	"github.com/seqops/helix/internal/runner"
	"github.com/seqops/helix/internal/store"
)

// Engine orchestrates asynchronous pipeline execution.
type Engine struct {
	store      store.Store
	registry   *runner.Registry
	runnerName string
	clock      model.Clock
	logger     *slog.Logger
	wg         sync.WaitGroup
	broker     *EventBroker
}

// NewEngine creates a new execution engine. Jobs are executed by the runner
// registered under runnerName.
func NewEngine(s store.Store, reg *runner.Registry, runnerName string, clock model.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		store:      s,
		registry:   reg,
		runnerName: runnerName,
		clock:      clock,
		logger:     logger,
		broker:     NewEventBroker(),
	}
}

// Broker returns the engine's event broker for SSE subscription.
func (e *Engine) Broker() *EventBroker {
	return e.broker
}

// RunnerName returns the name of the runner executing submitted jobs.
func (e *Engine) RunnerName() string {
	return e.runnerName
}

// Submit creates the job record and launches asynchronous execution in a
// goroutine. The job is stored with status "pending" before returning; the
// caller never waits on execution. The goroutine operates on a copy of the
// job to avoid data races with the caller.
func (e *Engine) Submit(ctx context.Context, j *model.Job) error {
	if err := e.store.CreateJob(ctx, j); err != nil {
		// A duplicate ID means the generator produced a collision, which is
		// a bug upstream rather than a caller mistake.
		e.logger.Error("create job", "job_id", j.ID, "error", err)
		return fmt.Errorf("create job: %w", err)
	}

	jobsSubmitted.WithLabelValues(j.PipelineName).Inc()

	jCopy := j.Clone()
	e.wg.Go(func() {
		e.execute(jCopy)
	})

	return nil
}

// Wait blocks until all in-flight job goroutines complete.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// execute runs the job lifecycle in a goroutine: pending→running→completed/failed.
func (e *Engine) execute(j *model.Job) {
	// Close the event stream when execution finishes, regardless of outcome.
	defer e.broker.Close(j.ID)

	// A panicking runner must not leave the job stuck in running, and must
	// never take down other jobs or the process.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("runner panic", "job_id", j.ID, "panic", r)
			e.finishFailed(j.ID, fmt.Sprintf("unexpected error during pipeline execution: %v", r))
		}
	}()

	started := e.clock.Now()
	if _, err := e.store.UpdateJob(context.Background(), j.ID, store.JobUpdate{
		Status:    model.StatusRunning,
		StartedAt: &started,
	}); err != nil {
		e.logger.Error("failed to transition to running", "job_id", j.ID, "error", err)
		e.finishFailed(j.ID, fmt.Sprintf("failed to start: %v", err))
		return
	}
	e.publishStatus(j.ID, model.StatusRunning)

	rn, err := e.registry.Resolve(e.runnerName)
	if err != nil {
		e.finishFailed(j.ID, fmt.Sprintf("resolve runner: %v", err))
		return
	}

	publish := func(msg string) {
		e.broker.Publish(j.ID, Event{Phase: PhaseProgress, Message: msg, At: e.clock.Now()})
	}

	if err := rn.Run(context.Background(), j, publish); err != nil {
		e.logger.Warn("job failed", "job_id", j.ID, "pipeline", j.PipelineName, "error", err)
		e.finishFailed(j.ID, err.Error())
		return
	}

	completed := e.clock.Now()
	if _, err := e.store.UpdateJob(context.Background(), j.ID, store.JobUpdate{
		Status:      model.StatusCompleted,
		CompletedAt: &completed,
	}); err != nil {
		e.logger.Error("failed to update completed job", "job_id", j.ID, "error", err)
		return
	}
	e.publishStatus(j.ID, model.StatusCompleted)

	jobsFinished.WithLabelValues(model.StatusCompleted).Inc()
	e.logger.Info("job completed", "job_id", j.ID, "pipeline", j.PipelineName)
}

// publishStatus announces a lifecycle transition on the job's event stream.
func (e *Engine) publishStatus(id, status string) {
	e.broker.Publish(id, Event{Phase: PhaseStatus, Message: status, At: e.clock.Now()})
}

// finishFailed marks a job as failed with the given error message.
func (e *Engine) finishFailed(id, errMsg string) {
	now := e.clock.Now()

	if _, err := e.store.UpdateJob(context.Background(), id, store.JobUpdate{
		Status:       model.StatusFailed,
		CompletedAt:  &now,
		ErrorMessage: &errMsg,
	}); err != nil {
		e.logger.Error("failed to update failed job", "job_id", id, "error", err)
		return
	}
	e.publishStatus(id, model.StatusFailed)

	jobsFinished.WithLabelValues(model.StatusFailed).Inc()
}
