package monitor

// anomalyDescription is the human-readable note attached to every flagged
// reading, mirroring the dashboard's anomaly table.
const anomalyDescription = "value outside normal range"

// Detect flags readings whose value lies outside the sigma band around
// the field mean: |value - mean| > sigma * stddev.
//
// The bounds are recomputed from the given readings on every call; there
// is no persisted baseline. Flags are written into each reading's
// Anomalous map (false for in-band values, so every present field gains
// its derived boolean column), and the flagged readings are returned as a
// time-ordered anomaly list.
//
// A field with fewer than two values, or with zero spread, flags nothing:
// its band collapses to the mean and no reading can exceed it strictly.
func Detect(readings []Reading, fields []string, sigma float64) []Anomaly {
	var anomalies []Anomaly

	type band struct {
		lower, upper float64
		active       bool
	}
	bands := make(map[string]band, len(fields))
	for _, field := range fields {
		s := Summarize(column(readings, field))
		bands[field] = band{
			lower:  s.Mean - sigma*s.StdDev,
			upper:  s.Mean + sigma*s.StdDev,
			active: s.Count > 1 && s.StdDev > 0,
		}
	}

	for i := range readings {
		r := &readings[i]
		for _, field := range fields {
			v, ok := r.Values[field]
			if !ok {
				continue
			}
			b := bands[field]
			flagged := b.active && (v < b.lower || v > b.upper)

			if r.Anomalous == nil {
				r.Anomalous = make(map[string]bool, len(fields))
			}
			r.Anomalous[field] = flagged

			if flagged {
				anomalies = append(anomalies, Anomaly{
					Time:        r.Time,
					Field:       field,
					Value:       v,
					Lower:       b.lower,
					Upper:       b.upper,
					Description: anomalyDescription,
				})
			}
		}
	}

	return anomalies
}
