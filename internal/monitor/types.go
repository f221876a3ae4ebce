package monitor

import "time"

// Snapshot sources.
const (
	// SourceInfluxDB marks a snapshot computed from live store data.
	SourceInfluxDB = "influxdb"

	// SourceSample marks a snapshot computed from the built-in sample
	// dataset (store disabled, unreachable, or query returned no rows).
	SourceSample = "sample"
)

// Reading is one pivoted sensor reading: a timestamp, the field values
// recorded at that time, and the per-field anomaly flags derived from the
// current window. Fields absent from a reading are missing from both maps.
type Reading struct {
	Time      time.Time          `json:"time"`
	Values    map[string]float64 `json:"values"`
	Anomalous map[string]bool    `json:"anomalous,omitempty"`
}

// Summary holds the descriptive statistics for one field over the window.
//
// StdDev is the sample standard deviation (n-1 denominator); it is zero
// when fewer than two values are present.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
}

// Anomaly is a single flagged reading: a value outside the sigma band
// around its field's mean.
type Anomaly struct {
	Time        time.Time `json:"time"`
	Field       string    `json:"field"`
	Value       float64   `json:"value"`
	Lower       float64   `json:"lower"`
	Upper       float64   `json:"upper"`
	Description string    `json:"description"`
}

// Prediction is the one-step trend projection for one field: the value an
// ordinary least-squares fit against row index extrapolates for the next
// reading.
type Prediction struct {
	Field     string  `json:"field"`
	Next      float64 `json:"next"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Snapshot is the complete analysed state the dashboard renders: the raw
// readings with anomaly flags, per-field summaries, the anomaly list, and
// the trend predictions. A snapshot is recomputed from scratch on every
// refresh; nothing is carried over between refreshes.
type Snapshot struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Source      string                `json:"source"`
	Fields      []string              `json:"fields"`
	Sigma       float64               `json:"sigma"`
	Readings    []Reading             `json:"readings"`
	Summaries   map[string]Summary    `json:"summaries"`
	Anomalies   []Anomaly             `json:"anomalies"`
	Predictions map[string]Prediction `json:"predictions"`

	// LastError carries the most recent refresh failure, if any. The rest
	// of the snapshot is then the last successfully computed state.
	LastError string `json:"last_error,omitempty"`
}
