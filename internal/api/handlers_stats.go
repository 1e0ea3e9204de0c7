package api

import "net/http"

func (s *Server) handleShuffleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"latency":     s.orchestrator.Latency().Snapshot(),
		"documents":   s.docs.Len(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
