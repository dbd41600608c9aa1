package api

import (
	"net/http"
)

// healthResponse reports liveness plus enough context to tell at a glance
// which execution backend this instance is driving and how long it has been
// up.
type healthResponse struct {
	Status        string `json:"status"`
	Runner        string `json:"runner"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Runner:        s.engine.RunnerName(),
		UptimeSeconds: int64(s.clock.Now().Sub(s.started).Seconds()),
	})
}
