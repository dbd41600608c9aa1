package runner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/seqops/helix/internal/config"
	"github.com/seqops/helix/internal/model"
)

// failureReasons is the pool of messages attached to simulated failures.
var failureReasons = []string{
	"pipeline step 'variant_calling' failed: insufficient memory",
	"reference genome file not found",
	"sample quality check failed: low coverage",
	"workflow execution timeout",
	"invalid parameter configuration",
}

// Compile-time interface satisfaction check.
var _ Runner = (*Simulated)(nil)

// Simulated is a stand-in execution backend. It sleeps for a duration drawn
// uniformly from the configured bounds, then succeeds with the configured
// probability. Each invocation draws independently.
type Simulated struct {
	cfg config.SimulationConfig

	// rng is optional; when nil the shared math/rand/v2 source is used.
	// A custom source needs the mutex because rand.Rand is not safe for
	// concurrent use and many jobs run at once.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated runner with the given parameters.
func NewSimulated(cfg config.SimulationConfig) *Simulated {
	return &Simulated{cfg: cfg}
}

// NewSimulatedWithSource creates a simulated runner drawing from src, for
// deterministic tests.
func NewSimulatedWithSource(cfg config.SimulationConfig, src rand.Source) *Simulated {
	return &Simulated{cfg: cfg, rng: rand.New(src)}
}

// Info implements Runner.
func (s *Simulated) Info() Info {
	return Info{
		Name:        "simulated",
		Description: "simulated pipeline execution with parameterized duration and success rate",
	}
}

// Run implements Runner. The only suspension point is the simulated delay;
// if the context is cancelled mid-sleep the context error is returned and the
// engine records the job as failed.
func (s *Simulated) Run(ctx context.Context, job *model.Job, publish func(event string)) error {
	duration := s.drawDuration()
	publish(fmt.Sprintf("executing pipeline %s (estimated %s)", job.PipelineName, duration.Round(time.Millisecond)))

	if duration > 0 {
		select {
		case <-time.After(duration):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if s.drawFloat() < s.cfg.SuccessRate {
		publish(fmt.Sprintf("pipeline %s finished in %s", job.PipelineName, duration.Round(time.Millisecond)))
		return nil
	}

	reason := failureReasons[s.drawIndex(len(failureReasons))]
	publish("pipeline failed: " + reason)
	return fmt.Errorf("%s", reason)
}

// drawDuration picks a duration uniformly from [MinDuration, MaxDuration].
func (s *Simulated) drawDuration() time.Duration {
	span := int64(s.cfg.MaxDuration - s.cfg.MinDuration)
	if span <= 0 {
		return s.cfg.MinDuration
	}

	if s.rng == nil {
		return s.cfg.MinDuration + time.Duration(rand.Int64N(span+1))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MinDuration + time.Duration(s.rng.Int64N(span+1))
}

func (s *Simulated) drawFloat() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Simulated) drawIndex(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
