package indicator

const (
	// RSINeutral is returned when the series is too short for a real
	// computation. Callers treat it as "no opinion".
	RSINeutral = 50.0

	// DefaultRSIPeriod is the conventional lookback.
	DefaultRSIPeriod = 14

	// DefaultRSIOversold and DefaultRSIOverbought are the conventional
	// decision thresholds. Comparisons are strict: exactly 30 or 70 is
	// neutral.
	DefaultRSIOversold   = 30.0
	DefaultRSIOverbought = 70.0
)

// RSIZone classifies an RSI reading against a threshold pair.
type RSIZone string

const (
	RSIZoneOversold   RSIZone = "oversold"
	RSIZoneNeutral    RSIZone = "neutral"
	RSIZoneOverbought RSIZone = "overbought"
)

// RSI computes the Relative Strength Index of the last close using Wilder's
// averaging over the trailing period+1 closes. The trailing window keeps the
// value independent of how much history the caller happens to pass, so
// identical recent prices always produce identical readings. It needs at
// least period+1 closes; with fewer it returns the neutral value 50 and
// never fails. A window with no losses returns 100.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return RSINeutral
	}

	window := closes[len(closes)-(period+1):]

	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100 // Perfect uptrend
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}

// RSISeries computes the RSI at every index from period onward. The result
// has len(closes)-period entries, the first corresponding to closes[period].
// Returns nil when the series is too short.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	result := make([]float64, 0, len(closes)-period)
	for i := period + 1; i <= len(closes); i++ {
		result = append(result, RSI(closes[:i], period))
	}

	return result
}

// ClassifyRSI maps an RSI value to a zone. Thresholds are strict
// inequalities: a value exactly on a threshold is neutral.
func ClassifyRSI(value, oversold, overbought float64) RSIZone {
	switch {
	case value < oversold:
		return RSIZoneOversold
	case value > overbought:
		return RSIZoneOverbought
	default:
		return RSIZoneNeutral
	}
}
