package api

import (
	"net/http"

	"github.com/seqops/helix/internal/model"
)

// statsResponse is the JSON response for GET /v1/stats. SuccessRate is the
// completed share of terminal jobs; zero when nothing has finished yet.
type statsResponse struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByPipeline    map[string]int `json:"by_pipeline"`
	AvgDurationMS float64        `json:"avg_duration_ms"`
	SuccessRate   float64        `json:"success_rate"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetJobStats(r.Context())
	if err != nil {
		s.logger.Error("get job stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	resp := statsResponse{
		Total:         stats.Total,
		ByStatus:      stats.CountByStatus,
		ByPipeline:    stats.CountByPipeline,
		AvgDurationMS: stats.AvgDurationMS,
	}
	completed := stats.CountByStatus[model.StatusCompleted]
	if terminal := completed + stats.CountByStatus[model.StatusFailed]; terminal > 0 {
		resp.SuccessRate = float64(completed) / float64(terminal)
	}

	s.writeJSON(w, http.StatusOK, resp)
}
