package influxdb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ReadingsQuery describes the windowed sensor readings query.
type ReadingsQuery struct {
	// Measurement is the InfluxDB measurement to read from.
	Measurement string

	// Fields is the set of field names to fetch and pivot into columns.
	Fields []string

	// Window is the lookback window (e.g. 7 days).
	Window time.Duration
}

// Row is a single pivoted reading: one timestamp with the field values
// recorded at that time. Fields absent from a row are simply missing
// from the map.
type Row struct {
	Time   time.Time
	Values map[string]float64
}

// identPattern restricts measurement and field names to safe identifiers.
// Names are interpolated into the Flux query string, so anything else is
// rejected up front.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QueryReadings executes the dashboard's readings query: a windowed range
// over the configured measurement, filtered to the requested fields and
// pivoted so each row holds all field values for one timestamp.
//
// Rows are returned in ascending timestamp order.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - q: Query parameters (measurement, fields, window)
//
// Returns:
//   - []Row: Timestamp-ordered pivoted rows
//   - error: ErrNoData if the query yields zero rows, ErrQueryFailed wrapped
//     around transport or Flux errors, validation errors otherwise
func (c *Client) QueryReadings(ctx context.Context, q ReadingsQuery) ([]Row, error) {
	if c == nil || !c.IsConnected() {
		return nil, ErrNotConnected
	}

	flux, err := buildReadingsFlux(c.cfg.Bucket, q)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, c.queryTimeout())
	defer cancel()

	result, err := c.queryAPI.Query(queryCtx, flux)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	var rows []Row
	for result.Next() {
		rec := result.Record()
		values := make(map[string]float64, len(q.Fields))
		for _, field := range q.Fields {
			if v, ok := toFloat(rec.ValueByKey(field)); ok {
				values[field] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{
			Time:   rec.Time(),
			Values: values,
		})
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, result.Err())
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}

	// Pivot output is grouped by table; enforce a single time-ordered view.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Time.Before(rows[j].Time)
	})

	return rows, nil
}

// buildReadingsFlux assembles the Flux query string for a ReadingsQuery.
//
// The shape is fixed: range over the window, filter on measurement and the
// field set, pivot fields into columns keyed by _time.
func buildReadingsFlux(bucket string, q ReadingsQuery) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("influxdb: bucket is required")
	}
	if !identPattern.MatchString(q.Measurement) {
		return "", fmt.Errorf("influxdb: invalid measurement name %q", q.Measurement)
	}
	if len(q.Fields) == 0 {
		return "", fmt.Errorf("influxdb: at least one field is required")
	}
	for _, field := range q.Fields {
		if !identPattern.MatchString(field) {
			return "", fmt.Errorf("influxdb: invalid field name %q", field)
		}
	}
	if q.Window <= 0 {
		return "", fmt.Errorf("influxdb: window must be positive")
	}

	keep := make([]string, 0, len(q.Fields)+1)
	keep = append(keep, `"_time"`)
	for _, field := range q.Fields {
		keep = append(keep, `"`+field+`"`)
	}

	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: -%s)
  |> filter(fn: (r) => r["_measurement"] == %q)
  |> filter(fn: (r) => r["_field"] =~ /^(%s)$/)
  |> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> keep(columns: [%s])
  |> sort(columns: ["_time"])`,
		bucket,
		fluxDuration(q.Window),
		q.Measurement,
		strings.Join(q.Fields, "|"),
		strings.Join(keep, ", "),
	)

	return flux, nil
}

// fluxDuration renders a duration as a Flux duration literal, preferring
// the coarsest exact unit (7d rather than 168h).
func fluxDuration(d time.Duration) string {
	const day = 24 * time.Hour

	switch {
	case d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
}

// toFloat converts a pivoted record value to float64.
// Flux numeric columns surface as float64 or int64 depending on the
// stored field type.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
