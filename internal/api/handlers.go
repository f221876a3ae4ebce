package api

import (
	"errors"
	"net/http"

	"github.com/plantpulse/plantpulse-core/internal/monitor"
)

// handleGetSnapshot returns the full dashboard snapshot: readings with
// anomaly flags, per-field summaries, the anomaly list, and predictions.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}

// handleGetSummaries returns only the per-field summary statistics.
func (s *Server) handleGetSummaries(w http.ResponseWriter, _ *http.Request) {
	snap := s.monitor.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": snap.GeneratedAt,
		"source":       snap.Source,
		"summaries":    snap.Summaries,
	})
}

// handleGetAnomalies returns only the flagged readings.
func (s *Server) handleGetAnomalies(w http.ResponseWriter, _ *http.Request) {
	snap := s.monitor.Snapshot()

	// Empty list rather than null keeps the UI simple.
	anomalies := snap.Anomalies
	if anomalies == nil {
		anomalies = []monitor.Anomaly{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": snap.GeneratedAt,
		"source":       snap.Source,
		"sigma":        snap.Sigma,
		"anomalies":    anomalies,
	})
}

// handleGetPredictions returns only the per-field trend projections.
func (s *Server) handleGetPredictions(w http.ResponseWriter, _ *http.Request) {
	snap := s.monitor.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": snap.GeneratedAt,
		"source":       snap.Source,
		"predictions":  snap.Predictions,
	})
}

// handleRefreshSnapshot triggers an immediate recompute and returns the
// fresh snapshot. A fetch failure keeps the previous snapshot and reports
// the store as unavailable.
func (s *Server) handleRefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.Refresh(r.Context()); err != nil {
		if errors.Is(err, monitor.ErrFetchFailed) {
			writeError(w, http.StatusBadGateway, ErrCodeStoreUnavailable, err.Error())
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.monitor.Snapshot())
}
