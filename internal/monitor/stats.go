package monitor

import "math"

// Summarize computes the descriptive statistics for a series of values.
//
// The standard deviation is the sample standard deviation (n-1 denominator).
// An empty series yields a zero Summary; a single value yields StdDev 0.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sum := 0.0
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values {
		sum += v
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	mean := sum / float64(n)

	stddev := 0.0
	if n > 1 {
		var sumSq float64
		for _, v := range values {
			d := v - mean
			sumSq += d * d
		}
		stddev = math.Sqrt(sumSq / float64(n-1))
	}

	return Summary{
		Count:  n,
		Mean:   mean,
		Min:    minVal,
		Max:    maxVal,
		StdDev: stddev,
	}
}

// column extracts the values a field holds across a reading series,
// preserving reading order. Readings that lack the field are skipped.
func column(readings []Reading, field string) []float64 {
	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		if v, ok := r.Values[field]; ok {
			values = append(values, v)
		}
	}
	return values
}
