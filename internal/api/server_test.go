package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plantpulse/plantpulse-core/internal/infrastructure/config"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/logging"
	"github.com/plantpulse/plantpulse-core/internal/monitor"
)

// failingSource always errors, simulating a store outage.
type failingSource struct{}

func (failingSource) FetchReadings(_ context.Context, _ time.Duration) ([]monitor.Reading, error) {
	return nil, errors.New("store down")
}

// connectedStore is a StoreStatus stub for health/metrics tests.
type connectedStore struct{ connected bool }

func (s connectedStore) IsConnected() bool { return s.connected }

func (s connectedStore) HealthCheck(_ context.Context) error { return nil }

func testAPIConfig() config.APIConfig {
	return config.APIConfig{
		Host: "127.0.0.1",
		Port: 0,
		Timeouts: config.APITimeoutConfig{
			Read:  10,
			Write: 10,
			Idle:  30,
		},
	}
}

// newTestServer builds a server around a sample-mode monitor service and
// returns its router wired the same way Start() wires it.
func newTestServer(t *testing.T, source monitor.Source, store StoreStatus) (*Server, http.Handler) {
	t.Helper()

	mon, err := monitor.New(monitor.Deps{
		Source: source,
		Logger: logging.Default(),
		Config: config.MonitorConfig{
			Measurement:     "sensors",
			Fields:          []string{"temperature", "humidity"},
			WindowDays:      7,
			RefreshInterval: 60,
			AnomalySigma:    2.0,
		},
	})
	if err != nil {
		t.Fatalf("monitor.New() error = %v", err)
	}
	if source == nil {
		if err := mon.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
	}

	srv, err := New(Deps{
		Config:  testAPIConfig(),
		WS:      config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Logger:  logging.Default(),
		Monitor: mon,
		Store:   store,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	srv.hub = NewHub(srv.wsCfg, srv.logger)
	return srv, srv.buildRouter()
}

func TestNew_RequiresMonitor(t *testing.T) {
	_, err := New(Deps{Logger: logging.Default()})
	if err == nil {
		t.Error("New() expected error for missing monitor service")
	}
}

func TestHandleHealth(t *testing.T) {
	_, router := newTestServer(t, nil, connectedStore{connected: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health: status %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["store_connected"] != true {
		t.Errorf("store_connected = %v, want true", body["store_connected"])
	}
}

func TestHandleHealth_NilStore(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["store_connected"] != false {
		t.Errorf("store_connected = %v, want false for nil store", body["store_connected"])
	}
}

func TestHandleGetSnapshot(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /snapshot: status %d, want 200", w.Code)
	}

	var snap monitor.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Source != monitor.SourceSample {
		t.Errorf("source = %q, want %q", snap.Source, monitor.SourceSample)
	}
	if len(snap.Readings) == 0 {
		t.Error("snapshot has no readings")
	}
	if _, ok := snap.Summaries["temperature"]; !ok {
		t.Error("snapshot missing temperature summary")
	}
}

func TestHandleGetSummaries(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /snapshot/summary: status %d, want 200", w.Code)
	}

	var body struct {
		Source    string                     `json:"source"`
		Summaries map[string]monitor.Summary `json:"summaries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Summaries) != 2 {
		t.Errorf("summaries = %d fields, want 2", len(body.Summaries))
	}
	if body.Summaries["temperature"].Count == 0 {
		t.Error("temperature summary has zero count")
	}
}

func TestHandleGetAnomalies_EmptyList(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot/anomalies", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /snapshot/anomalies: status %d, want 200", w.Code)
	}

	var body struct {
		Anomalies []monitor.Anomaly `json:"anomalies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Anomalies == nil {
		t.Error("anomalies is null, want empty array")
	}
}

func TestHandleGetPredictions(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot/predictions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /snapshot/predictions: status %d, want 200", w.Code)
	}

	var body struct {
		Predictions map[string]monitor.Prediction `json:"predictions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Predictions) != 2 {
		t.Errorf("predictions = %d fields, want 2", len(body.Predictions))
	}
}

func TestHandleRefreshSnapshot(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /snapshot/refresh: status %d, want 200", w.Code)
	}

	var snap monitor.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.GeneratedAt.IsZero() {
		t.Error("refreshed snapshot has zero GeneratedAt")
	}
}

func TestHandleRefreshSnapshot_StoreDown(t *testing.T) {
	_, router := newTestServer(t, failingSource{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("POST /snapshot/refresh: status %d, want 502", w.Code)
	}

	var apiErr Error
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if apiErr.Code != ErrCodeStoreUnavailable {
		t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeStoreUnavailable)
	}
}

func TestHandleMetrics(t *testing.T) {
	_, router := newTestServer(t, nil, connectedStore{connected: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics: status %d, want 200", w.Code)
	}

	var metrics SystemMetrics
	if err := json.Unmarshal(w.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if metrics.Runtime.Goroutines == 0 {
		t.Error("metrics missing goroutine count")
	}
	if !metrics.Store.Connected {
		t.Error("store reported disconnected")
	}
	if metrics.Monitor.Source != monitor.SourceSample {
		t.Errorf("monitor source = %q, want %q", metrics.Monitor.Source, monitor.SourceSample)
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("GET /: status %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard/" {
		t.Errorf("Location = %q, want /dashboard/", loc)
	}
}

func TestDashboardServed(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /dashboard/: status %d, want 200", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("GET /dashboard/: empty body")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}

	// Client-supplied request IDs are echoed back.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id-123" {
		t.Errorf("X-Request-ID = %q, want client-id-123", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, router := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS preflight: status %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want origin echoed", got)
	}
}

func TestServerLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := srv.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
