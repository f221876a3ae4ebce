package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for PlantPulse Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
	// QueryTimeout is the per-query timeout in seconds.
	QueryTimeout int `yaml:"query_timeout"`
}

// MonitorConfig contains sensor monitoring and analysis settings.
type MonitorConfig struct {
	// Measurement is the InfluxDB measurement holding sensor readings.
	Measurement string `yaml:"measurement"`

	// Fields is the set of sensor variables to fetch and analyse.
	Fields []string `yaml:"fields"`

	// WindowDays is the lookback window for the readings query.
	WindowDays int `yaml:"window_days"`

	// RefreshInterval is how often the snapshot is recomputed, in seconds.
	RefreshInterval int `yaml:"refresh_interval"`

	// AnomalySigma is the standard-deviation multiplier for the outlier
	// bounds. A reading is flagged when |value - mean| > sigma * stddev.
	AnomalySigma float64 `yaml:"anomaly_sigma"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PLANTPULSE_SECTION_KEY
// For example: PLANTPULSE_INFLUXDB_URL, PLANTPULSE_API_HOST
//
// The conventional InfluxDB connection variables INFLUX_URL, INFLUX_TOKEN,
// INFLUX_ORG and INFLUX_BUCKET are also honoured, so an existing deployment
// environment works without renaming anything.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultFields is the sensor variable set monitored when none is configured.
var DefaultFields = []string{"temperature", "humidity", "vibration", "current", "voltage"}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "site-001",
			Name:     "PlantPulse",
			Timezone: "UTC",
		},
		InfluxDB: InfluxDBConfig{
			Enabled:      true,
			URL:          "http://localhost:8086",
			Org:          "plantpulse",
			Bucket:       "sensors",
			QueryTimeout: 30,
		},
		Monitor: MonitorConfig{
			Measurement:     "sensors",
			Fields:          append([]string(nil), DefaultFields...),
			WindowDays:      7,
			RefreshInterval: 60,
			AnomalySigma:    2.0,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PLANTPULSE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// InfluxDB - conventional variable names first, PLANTPULSE_ names win
	if v := os.Getenv("INFLUX_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("INFLUX_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("INFLUX_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("INFLUX_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}
	if v := os.Getenv("PLANTPULSE_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("PLANTPULSE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("PLANTPULSE_INFLUXDB_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("PLANTPULSE_INFLUXDB_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	// API
	if v := os.Getenv("PLANTPULSE_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Logging
	if v := os.Getenv("PLANTPULSE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Site validation
	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	// InfluxDB validation - only when the store is enabled; a disabled store
	// runs the dashboard on the built-in sample dataset.
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required (set INFLUX_URL environment variable)")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required (set INFLUX_ORG environment variable)")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required (set INFLUX_BUCKET environment variable)")
		}
	}

	// Monitor validation
	if c.Monitor.Measurement == "" {
		errs = append(errs, "monitor.measurement is required")
	}
	if len(c.Monitor.Fields) == 0 {
		errs = append(errs, "monitor.fields must list at least one sensor variable")
	}
	if c.Monitor.WindowDays <= 0 {
		errs = append(errs, "monitor.window_days must be positive")
	}
	if c.Monitor.RefreshInterval <= 0 {
		errs = append(errs, "monitor.refresh_interval must be positive")
	}
	if c.Monitor.AnomalySigma <= 0 {
		errs = append(errs, "monitor.anomaly_sigma must be positive")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetQueryWindow returns the monitoring lookback window as a Duration.
func (c *Config) GetQueryWindow() time.Duration {
	return time.Duration(c.Monitor.WindowDays) * 24 * time.Hour
}

// GetRefreshInterval returns the snapshot refresh interval as a Duration.
func (c *Config) GetRefreshInterval() time.Duration {
	return time.Duration(c.Monitor.RefreshInterval) * time.Second
}

// GetQueryTimeout returns the InfluxDB query timeout as a Duration.
func (c *Config) GetQueryTimeout() time.Duration {
	return time.Duration(c.InfluxDB.QueryTimeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
