package indicator

import (
	"math"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// DefaultATRPeriod is the conventional ATR lookback.
const DefaultATRPeriod = 14

// ATR computes the Average True Range over the last period candles: the
// mean of max(high-low, |high-prevClose|, |low-prevClose|). Requires at
// least period+1 candles; returns false otherwise.
func ATR(candles types.Series, period int) (float64, bool) {
	if period <= 0 || len(candles) < period+1 {
		return 0, false
	}

	sum := 0.0
	start := len(candles) - period

	for i := start; i < len(candles); i++ {
		sum += trueRange(candles[i], candles[i-1].Close)
	}

	return sum / float64(period), true
}

func trueRange(c types.Candle, prevClose float64) float64 {
	return math.Max(
		c.High-c.Low,
		math.Max(
			math.Abs(c.High-prevClose),
			math.Abs(c.Low-prevClose),
		),
	)
}
