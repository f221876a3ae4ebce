// Package monitor implements the analysis core of the PlantPulse dashboard.
//
// It turns a windowed series of sensor readings into a Snapshot: per-field
// descriptive statistics, two-sided sigma-band anomaly flags, and one-step
// least-squares trend predictions. Everything is recomputed from scratch on
// each refresh; the package holds no baseline or model state between runs.
//
// The Service wraps the pipeline in a periodic refresh loop fed by a Source
// (the InfluxDB readings query in production). When the source is absent or
// returns no rows, the built-in sample dataset stands in so the dashboard
// always has something to show.
//
// # Data model
//
// A Reading is one row of the pivoted sensor table: timestamp plus the
// field values present at that time. Anomaly detection adds the derived
// per-field boolean columns. The variable set is configuration-driven;
// temperature, humidity, vibration, current and voltage by default.
package monitor
