package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/seqops/helix/internal/model"
)

func TestSubmitJobAccepted(t *testing.T) {
	srv := newTestServer(t)

	j := submitJob(t, srv)

	if j.ID == "" {
		t.Error("response job has no ID")
	}
	if j.Status != model.StatusPending {
		t.Errorf("response status = %q, want %q", j.Status, model.StatusPending)
	}
	if j.PipelineName != "gatk_variant_calling" {
		t.Errorf("response pipeline = %q, want gatk_variant_calling", j.PipelineName)
	}
	if j.CreatedAt.IsZero() {
		t.Error("response created_at is zero")
	}
	if j.StartedAt != nil || j.CompletedAt != nil || j.ErrorMessage != nil {
		t.Error("pending job should have null started_at, completed_at, error_message")
	}

	// The job eventually executes and completes.
	final := waitTerminal(t, srv, j.ID)
	if final.Status != model.StatusCompleted {
		t.Errorf("final status = %q, want %q", final.Status, model.StatusCompleted)
	}
}

func TestSubmitJobValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "invalid JSON",
			body:    `{"pipeline_name":`,
			wantErr: "invalid JSON body",
		},
		{
			name:    "missing pipeline_name",
			body:    `{"parameters":{}}`,
			wantErr: "pipeline_name is required",
		},
		{
			name:    "unknown pipeline",
			body:    `{"pipeline_name":"bogus","parameters":{}}`,
			wantErr: "unknown pipeline",
		},
		{
			name:    "missing parameters",
			body:    `{"pipeline_name":"gatk_variant_calling"}`,
			wantErr: "parameters are required",
		},
		{
			name:    "invalid parameters",
			body:    `{"pipeline_name":"gatk_variant_calling","parameters":{"sample_id":"x","reference_genome":"mm10"}}`,
			wantErr: "is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/v1/jobs", []byte(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if !strings.Contains(resp["error"], tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", resp["error"], tt.wantErr)
			}
		})
	}
}

func TestGetJob(t *testing.T) {
	srv := newTestServer(t)
	j := submitJob(t, srv)
	waitTerminal(t, srv, j.ID)

	rec := doRequest(t, srv, http.MethodGet, "/v1/jobs/"+j.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var got model.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != j.ID {
		t.Errorf("ID = %q, want %q", got.ID, j.ID)
	}
	if got.Status != model.StatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, model.StatusCompleted)
	}
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Error("terminal job should have started_at and completed_at set")
	}
}

func TestGetJobNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/jobs/"+model.NewID(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListJobs(t *testing.T) {
	srv := newTestServer(t)

	var ids []string
	for i := 0; i < 5; i++ {
		j := submitJob(t, srv)
		ids = append(ids, j.ID)
	}
	for _, id := range ids {
		waitTerminal(t, srv, id)
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/jobs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var resp listJobsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Total)
	}
	if len(resp.Jobs) != 5 {
		t.Errorf("len(jobs) = %d, want 5", len(resp.Jobs))
	}
}

func TestListJobsPagination(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 5; i++ {
		submitJob(t, srv)
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/jobs?limit=2&offset=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listJobsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Total)
	}
	if len(resp.Jobs) != 2 {
		t.Errorf("len(jobs) = %d, want 2", len(resp.Jobs))
	}
	if resp.Limit != 2 || resp.Offset != 1 {
		t.Errorf("limit/offset = %d/%d, want 2/1", resp.Limit, resp.Offset)
	}
}

func TestListJobsEmptyStore(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/jobs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	// The jobs field must be an empty array, not null.
	if !strings.Contains(rec.Body.String(), `"jobs":[]`) {
		t.Errorf("body = %s, want jobs to be an empty array", rec.Body)
	}
}

func TestListJobsClampsBadLimit(t *testing.T) {
	srv := newTestServer(t)
	submitJob(t, srv)

	for _, q := range []string{"limit=-3", "limit=10000", "limit=abc"} {
		rec := doRequest(t, srv, http.MethodGet, "/v1/jobs?"+q, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want %d", q, rec.Code, http.StatusOK)
		}
		var resp listJobsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode response: %v", q, err)
		}
		if resp.Limit <= 0 || resp.Limit > 100 {
			t.Errorf("%s: effective limit = %d, want within (0, 100]", q, resp.Limit)
		}
	}
}

func TestSubmitJobsConcurrently(t *testing.T) {
	srv := newTestServer(t)

	const n = 20
	type result struct {
		code int
		id   string
	}
	results := make(chan result, n)

	for i := 0; i < n; i++ {
		go func() {
			body := []byte(fmt.Sprintf(
				`{"pipeline_name":"gatk_variant_calling","parameters":{"sample_id":"S%d","reference_genome":"hg38"}}`, i))
			rec := doRequest(t, srv, http.MethodPost, "/v1/jobs", body)
			var j model.Job
			_ = json.Unmarshal(rec.Body.Bytes(), &j)
			results <- result{code: rec.Code, id: j.ID}
		}()
	}

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		r := <-results
		if r.code != http.StatusAccepted {
			t.Errorf("status = %d, want %d", r.code, http.StatusAccepted)
		}
		if seen[r.id] {
			t.Errorf("duplicate job ID %q across concurrent submissions", r.id)
		}
		seen[r.id] = true
	}

	for id := range seen {
		waitTerminal(t, srv, id)
	}
}
