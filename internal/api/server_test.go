package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seqops/helix/internal/config"
	"github.com/seqops/helix/internal/engine"
	"github.com/seqops/helix/internal/model"
	"github.com/seqops/helix/internal/runner"
	"github.com/seqops/helix/internal/store"
)

const validGATKParams = `{"sample_id":"WGS_001","reference_genome":"hg38","fastq_r1":"s3://data/WGS_001_R1.fastq.gz"}`

// newTestServer wires a server against an in-memory store and a simulated
// runner with zero delay, so submitted jobs reach a terminal state quickly.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	clock := model.RealClock{}
	st := store.NewMemoryStore(clock)
	reg := runner.NewRegistry()
	reg.Register("simulated", runner.NewSimulated(config.SimulationConfig{SuccessRate: 1.0}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.NewEngine(st, reg, "simulated", clock, logger)

	srv := NewServer("127.0.0.1:0", st, reg, eng, clock, logger)
	t.Cleanup(eng.Wait)
	return srv
}

// doRequest runs an HTTP request through the router and returns the recorder.
func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// submitJob posts a valid job and returns the decoded response.
func submitJob(t *testing.T, srv *Server) *model.Job {
	t.Helper()

	body := []byte(`{"pipeline_name":"gatk_variant_calling","parameters":` + validGATKParams + `}`)
	rec := doRequest(t, srv, http.MethodPost, "/v1/jobs", body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d, want %d: %s", rec.Code, http.StatusAccepted, rec.Body)
	}

	var j model.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &j); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	return &j
}

// waitTerminal polls the store until the job reaches a terminal state.
func waitTerminal(t *testing.T, srv *Server, id string) *model.Job {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := srv.store.GetJob(context.Background(), id)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if model.Terminal(j.Status) {
			return j
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state in time", id)
	return nil
}
