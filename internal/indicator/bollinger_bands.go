package indicator

import "math"

// Default Bollinger Band parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
)

// BollingerBands holds one Bollinger Band observation.
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerSeries computes Bollinger Bands (SMA ± k·stddev) over the closing
// prices. The result has len(closes)-period+1 entries, the first covering
// closes[0:period]. Returns nil when the series is too short.
func BollingerSeries(closes []float64, period int, k float64) []BollingerBands {
	middle := SMA(closes, period)
	if middle == nil {
		return nil
	}

	result := make([]BollingerBands, len(middle))

	for i := range middle {
		window := closes[i : i+period]

		variance := 0.0
		for _, v := range window {
			diff := v - middle[i]
			variance += diff * diff
		}

		stddev := math.Sqrt(variance / float64(period))

		result[i] = BollingerBands{
			Upper:  middle[i] + k*stddev,
			Middle: middle[i],
			Lower:  middle[i] - k*stddev,
		}
	}

	return result
}

// Bollinger returns the latest Bollinger Band observation, or false when the
// series is too short.
func Bollinger(closes []float64, period int, k float64) (BollingerBands, bool) {
	series := BollingerSeries(closes, period, k)
	if len(series) == 0 {
		return BollingerBands{}, false
	}

	return series[len(series)-1], true
}
