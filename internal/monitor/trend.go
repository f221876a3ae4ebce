package monitor

// FitTrend computes the ordinary least-squares line fit of a series
// against its index: value = slope*index + intercept.
//
// Degenerate series fall back to a flat line: an empty series yields
// (0, 0) and a single value yields (0, value).
func FitTrend(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, values[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// PredictNext extrapolates the fitted trend one step past the series:
// the predicted value at index len(values).
//
// An empty series predicts 0; a single value predicts that value.
func PredictNext(field string, values []float64) Prediction {
	slope, intercept := FitTrend(values)
	return Prediction{
		Field:     field,
		Next:      slope*float64(len(values)) + intercept,
		Slope:     slope,
		Intercept: intercept,
	}
}
