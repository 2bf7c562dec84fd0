package indicator

// OBV computes On-Balance Volume: cumulative volume signed by the direction
// of the close-to-close change. The result has the same length as the input,
// starting at zero. Returns nil when closes and volumes differ in length.
func OBV(closes, volumes []float64) []float64 {
	if len(closes) != len(volumes) || len(closes) == 0 {
		return nil
	}

	result := make([]float64, len(closes))

	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			result[i] = result[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			result[i] = result[i-1] - volumes[i]
		default:
			result[i] = result[i-1]
		}
	}

	return result
}

// OBVTrend reports the sign of the OBV change over the last lookback points:
// +1 rising, -1 falling, 0 flat or insufficient data.
func OBVTrend(closes, volumes []float64, lookback int) int {
	obv := OBV(closes, volumes)
	if lookback <= 0 || len(obv) <= lookback {
		return 0
	}

	delta := obv[len(obv)-1] - obv[len(obv)-1-lookback]

	switch {
	case delta > 0:
		return 1
	case delta < 0:
		return -1
	default:
		return 0
	}
}
