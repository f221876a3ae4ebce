package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string         `json:"timestamp"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Runtime       RuntimeMetrics `json:"runtime"`
	WebSocket     WSMetrics      `json:"websocket"`
	Store         StoreMetrics   `json:"store"`
	Monitor       MonitorMetrics `json:"monitor"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// StoreMetrics contains time-series store connection statistics.
type StoreMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// MonitorMetrics contains monitor service statistics.
type MonitorMetrics struct {
	Source      string `json:"source"`
	GeneratedAt string `json:"generated_at"`
	Readings    int    `json:"readings"`
	Anomalies   int    `json:"anomalies"`
	LastError   string `json:"last_error,omitempty"`
}

// handleMetrics returns comprehensive system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	// Collect runtime stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snap := s.monitor.Snapshot()

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
		},
		Monitor: MonitorMetrics{
			Source:      snap.Source,
			GeneratedAt: snap.GeneratedAt.UTC().Format(time.RFC3339),
			Readings:    len(snap.Readings),
			Anomalies:   len(snap.Anomalies),
			LastError:   snap.LastError,
		},
	}

	// Store metrics (if the time-series store is wired in)
	if s.store != nil {
		metrics.Store = StoreMetrics{
			Enabled:   true,
			Connected: s.store.IsConnected(),
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
