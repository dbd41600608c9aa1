package store

import (
	"context"
	"errors"
	"time"

	"github.com/seqops/helix/internal/model"
)

// ErrNotFound is returned when no job exists for the requested identifier.
// It is an expected outcome, not a fault.
var ErrNotFound = errors.New("job not found")

// ErrDuplicateID is returned when a create collides with an existing
// identifier. ULIDs make this effectively impossible, so a collision points
// at an identifier-generation bug upstream.
var ErrDuplicateID = errors.New("duplicate job id")

// JobUpdate describes a set of field changes applied atomically to a job.
// Zero-value fields are left unchanged. The store recomputes updated_at on
// every update.
type JobUpdate struct {
	Status       string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage *string
}

// JobStats holds aggregate execution statistics.
type JobStats struct {
	Total           int            `json:"total"`
	CountByStatus   map[string]int `json:"count_by_status"`
	CountByPipeline map[string]int `json:"count_by_pipeline"`
	AvgDurationMS   float64        `json:"avg_duration_ms"`
}

// Store defines the repository operations for jobs. All methods are safe for
// concurrent use and return copies; callers never observe a record
// mid-mutation.
type Store interface {
	CreateJob(ctx context.Context, j *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	UpdateJob(ctx context.Context, id string, upd JobUpdate) (*model.Job, error)
	ListJobs(ctx context.Context, limit, offset int) ([]*model.Job, int, error)
	CountJobs(ctx context.Context) (int, error)
	GetJobStats(ctx context.Context) (*JobStats, error)
}
