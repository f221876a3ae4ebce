// PlantPulse Core - Plant Monitoring Dashboard
//
// This is the main entry point for the PlantPulse Core application.
// PlantPulse pulls sensor time-series from InfluxDB, computes summary
// statistics, flags anomalous readings, fits per-variable trends, and
// serves an interactive dashboard over HTTP and WebSocket.
//
// When InfluxDB is disabled or unreachable the dashboard runs on a
// built-in sample dataset so the UI stays demonstrable.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantpulse/plantpulse-core/internal/api"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/config"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/influxdb"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/logging"
	"github.com/plantpulse/plantpulse-core/internal/monitor"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting PlantPulse Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to InfluxDB. Connection failures are not fatal: the dashboard
	// falls back to the sample dataset and keeps serving.
	influxClient, source := connectStore(ctx, cfg, log)
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
	}

	// Create the monitoring service
	mon, err := monitor.New(monitor.Deps{
		Source: source,
		Logger: log,
		Config: cfg.Monitor,
	})
	if err != nil {
		return fmt.Errorf("creating monitor service: %w", err)
	}

	// Create the API server
	var store api.StoreStatus
	if influxClient != nil {
		store = influxClient
	}
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Monitor: mon,
		Store:   store,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Start the API server first so the WebSocket hub exists before the
	// monitor's first refresh fires the update callback.
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"tls", cfg.API.TLS.Enabled,
	)

	// Push every successful refresh to subscribed dashboard clients
	mon.SetOnUpdate(func(snap monitor.Snapshot) {
		server.Hub().Broadcast(api.ChannelSnapshot, snap)
	})

	// Start the monitor: the initial snapshot must succeed, after that the
	// refresh loop runs in the background.
	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("starting monitor service: %w", err)
	}
	defer func() {
		log.Info("stopping monitor service")
		if closeErr := mon.Close(); closeErr != nil {
			log.Error("error closing monitor service", "error", closeErr)
		}
	}()
	log.Info("monitor service started",
		"fields", cfg.Monitor.Fields,
		"window_days", cfg.Monitor.WindowDays,
		"refresh_interval_s", cfg.Monitor.RefreshInterval,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, server, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. Monitor service
	// 2. API server
	// 3. InfluxDB (if connected)

	log.Info("PlantPulse Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PLANTPULSE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PLANTPULSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// connectStore connects to InfluxDB and wraps the client as a monitor
// source. It returns (nil, nil) when the store is disabled or unreachable,
// which puts the monitor in sample-data mode.
func connectStore(ctx context.Context, cfg *config.Config, log *logging.Logger) (*influxdb.Client, monitor.Source) {
	if !cfg.InfluxDB.Enabled {
		log.Info("InfluxDB disabled, dashboard will use sample data")
		return nil, nil
	}

	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
	if err != nil {
		log.Warn("InfluxDB unreachable, dashboard will use sample data",
			"url", cfg.InfluxDB.URL,
			"error", err,
		)
		return nil, nil
	}

	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)

	return client, &storeSource{
		client:      client,
		measurement: cfg.Monitor.Measurement,
		fields:      cfg.Monitor.Fields,
	}
}

// healthCheck verifies all running components are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - server: API server to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, server *api.Server, influxClient *influxdb.Client) error {
	// Check API server
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	// Check InfluxDB (if connected)
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// storeSource adapts the infrastructure InfluxDB client to the monitor's
// Source interface. The primary difference is the not-found contract:
// - Infrastructure influxdb: an empty window is ErrNoData
// - Monitor expects: empty slice and nil error (triggers sample fallback)
type storeSource struct {
	client      *influxdb.Client
	measurement string
	fields      []string
}

// FetchReadings implements monitor.Source.
func (s *storeSource) FetchReadings(ctx context.Context, window time.Duration) ([]monitor.Reading, error) {
	rows, err := s.client.QueryReadings(ctx, influxdb.ReadingsQuery{
		Measurement: s.measurement,
		Fields:      s.fields,
		Window:      window,
	})
	if err != nil {
		if errors.Is(err, influxdb.ErrNoData) {
			return nil, nil
		}
		return nil, err
	}

	readings := make([]monitor.Reading, len(rows))
	for i, row := range rows {
		readings[i] = monitor.Reading{
			Time:   row.Time,
			Values: row.Values,
		}
	}
	return readings, nil
}
