package analysis

// CrossingPeriods converts crossing timestamps into period estimates. A
// pendulum crosses twice per period, so each estimate spans two crossings.
func CrossingPeriods(times []float64) []float64 {
	if len(times) < 3 {
		return nil
	}
	periods := make([]float64, 0, len(times)-2)
	for i := 2; i < len(times); i++ {
		periods = append(periods, times[i]-times[i-2])
	}
	return periods
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
