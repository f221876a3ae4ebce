package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/plantpulse/plantpulse-core/internal/infrastructure/config"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/logging"
)

// Source fetches the windowed sensor readings from the time-series store.
//
// A source that finds no data in the window returns an empty slice and a
// nil error; the service then applies the sample-data fallback. Transport
// and query failures are returned as errors.
type Source interface {
	FetchReadings(ctx context.Context, window time.Duration) ([]Reading, error)
}

// Deps holds the dependencies required by the monitoring service.
type Deps struct {
	// Source provides readings from the store. A nil source puts the
	// service in sample-data mode (store disabled or unreachable).
	Source Source
	Logger *logging.Logger
	Config config.MonitorConfig
}

// Service computes and holds the dashboard snapshot.
//
// It refreshes on a fixed interval in a background goroutine, recomputing
// statistics, anomaly flags and trend predictions from scratch each time.
// The latest snapshot is available at any point via Snapshot(), and an
// optional callback fires after every successful refresh.
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
type Service struct {
	source Source
	logger *logging.Logger
	cfg    config.MonitorConfig

	snapshot Snapshot
	onUpdate func(Snapshot)
	mu       sync.RWMutex

	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a monitoring service from its dependencies.
//
// Parameters:
//   - deps: Source (may be nil for sample mode), logger, monitor config
//
// Returns:
//   - *Service: Service ready to Start
//   - error: If required dependencies or config values are missing
func New(deps Deps) (*Service, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if len(deps.Config.Fields) == 0 {
		return nil, fmt.Errorf("at least one monitored field is required")
	}
	if deps.Config.AnomalySigma <= 0 {
		return nil, fmt.Errorf("anomaly sigma must be positive")
	}

	return &Service{
		source: deps.Source,
		logger: deps.Logger.With("component", "monitor"),
		cfg:    deps.Config,
	}, nil
}

// SetOnUpdate sets a callback invoked after every successful refresh with
// the new snapshot. Set before Start to avoid missing the first refresh.
func (s *Service) SetOnUpdate(callback func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Start computes the initial snapshot and launches the periodic refresh
// loop.
//
// A failure of the initial refresh is returned to the caller: a dashboard
// that cannot produce its first snapshot has nothing to serve. Refresh
// failures after startup keep the last snapshot and are only logged.
//
// Parameters:
//   - ctx: Context bounding the background refresh loop
//
// Returns:
//   - error: If already started or the initial refresh fails
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}

	var loopCtx context.Context
	loopCtx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.refreshLoop(loopCtx)

	return nil
}

// Close stops the background refresh loop.
func (s *Service) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

// refreshLoop recomputes the snapshot on the configured interval until
// the context is cancelled.
func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	interval := time.Duration(s.cfg.RefreshInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Error("snapshot refresh failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Refresh recomputes the snapshot immediately: fetch the window, fall back
// to the sample dataset if it is empty, then recompute summaries, anomaly
// flags and predictions.
//
// On a fetch error the previous snapshot is kept (with LastError set) and
// the error is returned.
//
// Parameters:
//   - ctx: Context for the store query
//
// Returns:
//   - error: The fetch error, or nil after a successful recompute
func (s *Service) Refresh(ctx context.Context) error {
	readings, source, err := s.fetch(ctx)
	if err != nil {
		s.recordError(err)
		return err
	}

	snap := s.analyze(readings, source)

	s.mu.Lock()
	s.snapshot = snap
	callback := s.onUpdate
	s.mu.Unlock()

	s.logger.Info("snapshot refreshed",
		"source", snap.Source,
		"readings", len(snap.Readings),
		"anomalies", len(snap.Anomalies),
	)

	if callback != nil {
		callback(snap)
	}
	return nil
}

// Snapshot returns the latest computed snapshot.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// fetch obtains the reading series for analysis and reports its source.
func (s *Service) fetch(ctx context.Context) ([]Reading, string, error) {
	if s.source == nil {
		return SampleReadings(s.cfg.Fields, time.Now()), SourceSample, nil
	}

	window := time.Duration(s.cfg.WindowDays) * 24 * time.Hour
	readings, err := s.source.FetchReadings(ctx, window)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if len(readings) == 0 {
		s.logger.Warn("store returned no readings, using sample dataset")
		return SampleReadings(s.cfg.Fields, time.Now()), SourceSample, nil
	}
	return readings, SourceInfluxDB, nil
}

// analyze runs the full pipeline over a reading series: per-field
// summaries, sigma-band anomaly flags, and one-step trend predictions.
func (s *Service) analyze(readings []Reading, source string) Snapshot {
	fields := s.cfg.Fields

	summaries := make(map[string]Summary, len(fields))
	predictions := make(map[string]Prediction, len(fields))
	for _, field := range fields {
		values := column(readings, field)
		summaries[field] = Summarize(values)
		predictions[field] = PredictNext(field, values)
	}

	anomalies := Detect(readings, fields, s.cfg.AnomalySigma)

	return Snapshot{
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Fields:      append([]string(nil), fields...),
		Sigma:       s.cfg.AnomalySigma,
		Readings:    readings,
		Summaries:   summaries,
		Anomalies:   anomalies,
		Predictions: predictions,
	}
}

// recordError stamps the fetch error onto the held snapshot without
// discarding its data.
func (s *Service) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err.Error()
}
