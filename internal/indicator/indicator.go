// Package indicator provides pure, deterministic technical indicator
// computations over an ordered candle series. Every function recomputes from
// scratch on each call and keeps no state between calls. Results align 1:1
// with the input where defined; warm-up points are not emitted.
package indicator

// SMA returns the simple moving average series. The result has
// len(values)-period+1 entries, the first covering values[0:period].
// Returns nil when there are fewer than period values.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	result := make([]float64, 0, len(values)-period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}

	result = append(result, sum/float64(period))

	for i := period; i < len(values); i++ {
		sum += values[i] - values[i-period]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA returns the exponential moving average series, seeded with the SMA of
// the first period values. The result has len(values)-period+1 entries.
// Returns nil when there are fewer than period values.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	result := make([]float64, 0, len(values)-period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	ema := seed / float64(period)
	result = append(result, ema)

	multiplier := 2.0 / (float64(period) + 1.0)

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		result = append(result, ema)
	}

	return result
}

func last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	return values[len(values)-1], true
}
