// Package influxdb provides InfluxDB connectivity for PlantPulse Core.
//
// It wraps the official influxdb-client-go v2 library with PlantPulse-specific
// patterns for connection management, the sensor readings query, and health
// monitoring.
//
// # Purpose
//
// This package handles the single read path of the dashboard: a windowed,
// pivoted Flux query over the configured sensor measurement. There is no
// write path; the store is read-only from this service's point of view.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "plantpulse",
//	    Bucket: "sensors",
//	}
//
//	client, err := influxdb.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	rows, err := client.QueryReadings(ctx, influxdb.ReadingsQuery{
//	    Measurement: "sensors",
//	    Fields:      []string{"temperature", "voltage"},
//	    Window:      7 * 24 * time.Hour,
//	})
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
//
// # Error Handling
//
// Connection and health check errors are returned directly. A query that
// succeeds but yields zero rows returns ErrNoData so the caller can apply
// the sample-data fallback.
package influxdb
