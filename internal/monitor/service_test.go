package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plantpulse/plantpulse-core/internal/infrastructure/config"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/logging"
)

// fakeSource is a scripted Source for service tests.
type fakeSource struct {
	readings []Reading
	err      error
	calls    int
}

func (f *fakeSource) FetchReadings(_ context.Context, _ time.Duration) ([]Reading, error) {
	f.calls++
	return f.readings, f.err
}

func testMonitorConfig() config.MonitorConfig {
	return config.MonitorConfig{
		Measurement:     "sensors",
		Fields:          []string{"temperature", "humidity"},
		WindowDays:      7,
		RefreshInterval: 60,
		AnomalySigma:    2.0,
	}
}

func newTestService(t *testing.T, source Source) *Service {
	t.Helper()
	svc, err := New(Deps{
		Source: source,
		Logger: logging.Default(),
		Config: testMonitorConfig(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(Deps{Config: testMonitorConfig()})
	if err == nil {
		t.Error("New() expected error for missing logger")
	}
}

func TestNew_RequiresFields(t *testing.T) {
	cfg := testMonitorConfig()
	cfg.Fields = nil
	_, err := New(Deps{Logger: logging.Default(), Config: cfg})
	if err == nil {
		t.Error("New() expected error for empty field list")
	}
}

func TestRefresh_SampleModeWithNilSource(t *testing.T) {
	svc := newTestService(t, nil)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := svc.Snapshot()
	if snap.Source != SourceSample {
		t.Errorf("Source = %q, want %q", snap.Source, SourceSample)
	}
	if len(snap.Readings) != sampleLength {
		t.Errorf("Readings = %d, want %d", len(snap.Readings), sampleLength)
	}
	if len(snap.Summaries) != 2 {
		t.Errorf("Summaries = %d fields, want 2", len(snap.Summaries))
	}
	if len(snap.Predictions) != 2 {
		t.Errorf("Predictions = %d fields, want 2", len(snap.Predictions))
	}
}

func TestRefresh_EmptyStoreFallsBackToSample(t *testing.T) {
	source := &fakeSource{readings: nil}
	svc := newTestService(t, source)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := svc.Snapshot()
	if snap.Source != SourceSample {
		t.Errorf("Source = %q, want %q for empty store", snap.Source, SourceSample)
	}
	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}
}

func TestRefresh_StoreData(t *testing.T) {
	source := &fakeSource{
		readings: makeReadings("temperature", []float64{20, 21, 22, 23}),
	}
	svc := newTestService(t, source)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := svc.Snapshot()
	if snap.Source != SourceInfluxDB {
		t.Errorf("Source = %q, want %q", snap.Source, SourceInfluxDB)
	}
	if len(snap.Readings) != 4 {
		t.Errorf("Readings = %d, want 4", len(snap.Readings))
	}

	// Rising line: the projection continues it.
	p := snap.Predictions["temperature"]
	if !almostEqual(p.Next, 24) {
		t.Errorf("Predictions[temperature].Next = %v, want 24", p.Next)
	}

	// Humidity has no data at all: zero summary, zero prediction.
	if s := snap.Summaries["humidity"]; s.Count != 0 {
		t.Errorf("Summaries[humidity].Count = %d, want 0", s.Count)
	}
}

func TestRefresh_FetchErrorKeepsLastSnapshot(t *testing.T) {
	source := &fakeSource{
		readings: makeReadings("temperature", []float64{20, 21, 22}),
	}
	svc := newTestService(t, source)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}

	source.err = errors.New("connection reset")
	source.readings = nil

	err := svc.Refresh(context.Background())
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Refresh() error = %v, want ErrFetchFailed", err)
	}

	snap := svc.Snapshot()
	if len(snap.Readings) != 3 {
		t.Errorf("Readings = %d, want previous 3 kept", len(snap.Readings))
	}
	if snap.LastError == "" {
		t.Error("LastError not recorded on snapshot")
	}
}

func TestRefresh_InvokesOnUpdate(t *testing.T) {
	svc := newTestService(t, nil)

	var got *Snapshot
	svc.SetOnUpdate(func(s Snapshot) {
		got = &s
	})

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got == nil {
		t.Fatal("OnUpdate callback not invoked")
	}
	if got.Source != SourceSample {
		t.Errorf("callback snapshot source = %q, want %q", got.Source, SourceSample)
	}
}

func TestStart_InitialRefreshFailureIsFatal(t *testing.T) {
	source := &fakeSource{err: errors.New("store down")}
	svc := newTestService(t, source)

	if err := svc.Start(context.Background()); err == nil {
		t.Error("Start() expected error when initial refresh fails")
	}
}

func TestStart_Twice(t *testing.T) {
	svc := newTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer svc.Close()

	if err := svc.Start(ctx); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestClose_StopsRefreshLoop(t *testing.T) {
	svc := newTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestAnalyze_SnapshotFlagsMatchAnomalyList(t *testing.T) {
	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 100}
	source := &fakeSource{readings: makeReadings("temperature", values)}
	svc := newTestService(t, source)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	snap := svc.Snapshot()

	flagged := 0
	for _, r := range snap.Readings {
		if r.Anomalous["temperature"] {
			flagged++
		}
	}
	if flagged != len(snap.Anomalies) {
		t.Errorf("flagged readings = %d, anomaly list = %d", flagged, len(snap.Anomalies))
	}
	if len(snap.Anomalies) != 1 {
		t.Errorf("anomalies = %d, want 1", len(snap.Anomalies))
	}
}
