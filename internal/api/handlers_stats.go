package api

import (
	"net/http"
)

// handleRenderStats reports per-phase latency percentiles and renders per
// format together with the queue depth and the stored jobs per status.
func (s *Server) handleRenderStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        s.orchestrator.JobCounts(),
		"stats":       s.orchestrator.Stats().Snapshot(),
	})
}
