package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seqops/helix/internal/pipeline"
	"github.com/seqops/helix/internal/runner"
)

// listPipelinesResponse is the JSON response for GET /v1/pipelines.
type listPipelinesResponse struct {
	Pipelines []pipeline.Info `json:"pipelines"`
}

func (s *Server) handleListPipelines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, listPipelinesResponse{
		Pipelines: pipeline.List(),
	})
}

func (s *Server) handleGetPipeline(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	info, ok := pipeline.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "pipeline not found")
		return
	}

	s.writeJSON(w, http.StatusOK, info)
}

// listRunnersResponse is the JSON response for GET /v1/runners.
type listRunnersResponse struct {
	Active  string        `json:"active"`
	Runners []runner.Info `json:"runners"`
}

func (s *Server) handleListRunners(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, listRunnersResponse{
		Active:  s.engine.RunnerName(),
		Runners: s.registry.List(),
	})
}
