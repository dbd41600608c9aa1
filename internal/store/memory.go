package store

import (
	"context"
	"sort"
	"sync"

	"github.com/seqops/helix/internal/model"
)

// Compile-time interface satisfaction check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store with an in-process map guarded by a RWMutex.
// Records live for the lifetime of the process; there is no eviction and no
// persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]*model.Job
	clock model.Clock
}

// NewMemoryStore creates an empty in-memory job store. Timestamps recomputed
// on update come from clock.
func NewMemoryStore(clock model.Clock) *MemoryStore {
	return &MemoryStore{
		jobs:  make(map[string]*model.Job),
		clock: clock,
	}
}

// CreateJob inserts a new job record keyed by its ID. Returns ErrDuplicateID
// if a record with the same identifier already exists.
func (s *MemoryStore) CreateJob(_ context.Context, j *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[j.ID]; exists {
		return ErrDuplicateID
	}
	s.jobs[j.ID] = j.Clone()
	return nil
}

// GetJob returns a snapshot of the job with the given ID, or ErrNotFound.
func (s *MemoryStore) GetJob(_ context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j.Clone(), nil
}

// UpdateJob applies the given field changes to an existing job as a single
// atomic step and returns the updated snapshot. Concurrent updates to the
// same job are serialized; readers never observe a partially applied update.
func (s *MemoryStore) UpdateJob(_ context.Context, id string, upd JobUpdate) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}

	if upd.Status != "" {
		j.Status = upd.Status
	}
	if upd.StartedAt != nil {
		j.StartedAt = upd.StartedAt
	}
	if upd.CompletedAt != nil {
		j.CompletedAt = upd.CompletedAt
	}
	if upd.ErrorMessage != nil {
		j.ErrorMessage = upd.ErrorMessage
	}
	j.UpdatedAt = s.clock.Now()

	return j.Clone(), nil
}

// ListJobs returns a point-in-time snapshot of stored jobs ordered by
// created_at descending, along with the total count. A limit of 0 returns
// everything after the offset. The returned slice is detached from the store
// and does not change if the store mutates afterwards.
func (s *MemoryStore) ListJobs(_ context.Context, limit, offset int) ([]*model.Job, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(i, k int) bool {
		if all[i].CreatedAt.Equal(all[k].CreatedAt) {
			// ULIDs are monotonic enough to break ties deterministically.
			return all[i].ID > all[k].ID
		}
		return all[i].CreatedAt.After(all[k].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []*model.Job{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	out := make([]*model.Job, len(all))
	for i, j := range all {
		out[i] = j.Clone()
	}
	return out, total, nil
}

// CountJobs returns the number of stored jobs.
func (s *MemoryStore) CountJobs(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs), nil
}

// GetJobStats computes aggregate counts and the average duration of terminal
// jobs in a single pass under the read lock.
func (s *MemoryStore) GetJobStats(_ context.Context) (*JobStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &JobStats{
		Total:           len(s.jobs),
		CountByStatus:   make(map[string]int),
		CountByPipeline: make(map[string]int),
	}

	var durSumMS float64
	var durCount int
	for _, j := range s.jobs {
		stats.CountByStatus[j.Status]++
		stats.CountByPipeline[j.PipelineName]++
		if j.StartedAt != nil && j.CompletedAt != nil {
			durSumMS += float64(j.CompletedAt.Sub(*j.StartedAt).Milliseconds())
			durCount++
		}
	}
	if durCount > 0 {
		stats.AvgDurationMS = durSumMS / float64(durCount)
	}

	return stats, nil
}
