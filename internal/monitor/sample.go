package monitor

import "time"

// sampleSeries is the built-in fallback dataset: ten daily readings per
// sensor variable, used whenever the store yields no data.
var sampleSeries = map[string][]float64{
	"temperature": {28, 29, 30, 32, 33, 31, 30, 29, 28, 27},
	"humidity":    {55, 58, 60, 62, 59, 61, 63, 65, 60, 58},
	"vibration":   {1.2, 1.3, 1.5, 1.7, 1.8, 1.6, 1.5, 1.4, 1.3, 1.2},
	"current":     {5.5, 5.8, 6.0, 6.2, 6.5, 6.1, 5.9, 5.8, 5.6, 5.7},
	"voltage":     {230, 231, 229, 228, 232, 233, 230, 229, 231, 230},
}

// sampleLength is the number of readings in the fallback dataset.
const sampleLength = 10

// SampleReadings returns the fallback dataset as a reading series ending
// at the most recent UTC midnight before end, one reading per day.
//
// Only the requested fields are populated; requested fields without a
// sample series are omitted from the value maps.
func SampleReadings(fields []string, end time.Time) []Reading {
	lastDay := end.UTC().Truncate(24 * time.Hour)
	start := lastDay.AddDate(0, 0, -(sampleLength - 1))

	readings := make([]Reading, sampleLength)
	for i := range readings {
		values := make(map[string]float64, len(fields))
		for _, field := range fields {
			if series, ok := sampleSeries[field]; ok {
				values[field] = series[i]
			}
		}
		readings[i] = Reading{
			Time:   start.AddDate(0, 0, i),
			Values: values,
		}
	}
	return readings
}
