package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/seqops/helix/internal/model"
)

func TestGetStatsEmpty(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
	if resp.AvgDurationMS != 0 {
		t.Errorf("avg_duration_ms = %v, want 0", resp.AvgDurationMS)
	}
	if resp.SuccessRate != 0 {
		t.Errorf("success_rate = %v, want 0 with no terminal jobs", resp.SuccessRate)
	}
}

func TestGetStatsCountsJobs(t *testing.T) {
	srv := newTestServer(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, submitJob(t, srv).ID)
	}
	for _, id := range ids {
		waitTerminal(t, srv, id)
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if resp.ByStatus[model.StatusCompleted] != 3 {
		t.Errorf("by_status[completed] = %d, want 3", resp.ByStatus[model.StatusCompleted])
	}
	if resp.ByPipeline["gatk_variant_calling"] != 3 {
		t.Errorf("by_pipeline[gatk_variant_calling] = %d, want 3", resp.ByPipeline["gatk_variant_calling"])
	}
	// All terminal jobs completed (success rate pinned to 1.0 in the runner).
	if resp.SuccessRate != 1.0 {
		t.Errorf("success_rate = %v, want 1.0", resp.SuccessRate)
	}
}
