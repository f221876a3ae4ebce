package influxdb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/plantpulse/plantpulse-core/internal/infrastructure/config"
	"github.com/plantpulse/plantpulse-core/internal/infrastructure/influxdb"
)

// testConfig returns a configuration for the local dev InfluxDB.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:      true,
		URL:          "http://127.0.0.1:8086",
		Token:        "plantpulse-dev-token",
		Org:          "plantpulse",
		Bucket:       "sensors",
		QueryTimeout: 5,
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(context.Background(), cfg)
	if err == nil {
		t.Fatal("Connect() should return error when disabled")
	}
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999" // Non-existent port

	_, err := influxdb.Connect(context.Background(), cfg)
	if err == nil {
		t.Fatal("Connect() should return error for invalid URL")
	}
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	var client *influxdb.Client
	if client.IsConnected() {
		t.Error("IsConnected() = true for nil client")
	}
}

func TestClose_NilClient(t *testing.T) {
	var client *influxdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client = %v, want nil", err)
	}
}
