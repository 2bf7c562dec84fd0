package indicator

import (
	"math"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// Candlestick pattern scoring. Each detected pattern contributes a signed
// weight; the aggregate score over the most recent candles is the pattern
// reading used by the advanced strategy. A score above +1 is bullish, below
// -1 bearish, anything in between carries no opinion.

const (
	patternWeightSingle = 1.0
	patternWeightStrong = 2.0

	// dojiBodyRatio is the max body/range ratio for a doji.
	dojiBodyRatio = 0.1
	// marubozuBodyRatio is the min body/range ratio for a marubozu.
	marubozuBodyRatio = 0.9
	// shadowBodyRatio is the min shadow/body ratio for hammers and
	// shooting stars.
	shadowBodyRatio = 2.0
)

// PatternScore aggregates candlestick pattern weights over the tail of the
// series. Requires at least 3 candles; returns 0 otherwise.
func PatternScore(candles types.Series) float64 {
	if len(candles) < 3 {
		return 0
	}

	score := 0.0

	prev := candles[len(candles)-2]
	curr := candles[len(candles)-1]

	// Engulfing
	if isBullish(curr) && isBearish(prev) && curr.Close > prev.Open && curr.Open < prev.Close {
		score += patternWeightStrong
	}

	if isBearish(curr) && isBullish(prev) && curr.Close < prev.Open && curr.Open > prev.Close {
		score -= patternWeightStrong
	}

	// Hammer / shooting star
	if isHammer(curr) {
		score += patternWeightSingle
	}

	if isShootingStar(curr) {
		score -= patternWeightSingle
	}

	// Marubozu
	if isMarubozu(curr) {
		if isBullish(curr) {
			score += patternWeightSingle
		} else {
			score -= patternWeightSingle
		}
	}

	// Three white soldiers / three black crows
	if len(candles) >= 3 {
		a, b, c := candles[len(candles)-3], candles[len(candles)-2], candles[len(candles)-1]

		if isBullish(a) && isBullish(b) && isBullish(c) && b.Close > a.Close && c.Close > b.Close {
			score += patternWeightStrong
		}

		if isBearish(a) && isBearish(b) && isBearish(c) && b.Close < a.Close && c.Close < b.Close {
			score -= patternWeightStrong
		}
	}

	// Morning star / evening star
	if len(candles) >= 3 {
		a, b, c := candles[len(candles)-3], candles[len(candles)-2], candles[len(candles)-1]

		if isBearish(a) && isDoji(b) && isBullish(c) && c.Close > midpoint(a) {
			score += patternWeightStrong
		}

		if isBullish(a) && isDoji(b) && isBearish(c) && c.Close < midpoint(a) {
			score -= patternWeightStrong
		}
	}

	return score
}

// PatternSignal maps the pattern score to a direction: +1 bullish, -1
// bearish, 0 neutral.
func PatternSignal(candles types.Series) int {
	score := PatternScore(candles)

	switch {
	case score > 1:
		return 1
	case score < -1:
		return -1
	default:
		return 0
	}
}

func body(c types.Candle) float64 {
	return math.Abs(c.Close - c.Open)
}

func candleRange(c types.Candle) float64 {
	return c.High - c.Low
}

func isBullish(c types.Candle) bool {
	return c.Close > c.Open
}

func isBearish(c types.Candle) bool {
	return c.Close < c.Open
}

func isDoji(c types.Candle) bool {
	r := candleRange(c)

	return r > 0 && body(c) <= dojiBodyRatio*r
}

func isMarubozu(c types.Candle) bool {
	r := candleRange(c)

	return r > 0 && body(c) >= marubozuBodyRatio*r
}

func isHammer(c types.Candle) bool {
	b := body(c)
	if b == 0 {
		return false
	}

	lowerShadow := math.Min(c.Open, c.Close) - c.Low
	upperShadow := c.High - math.Max(c.Open, c.Close)

	return lowerShadow >= shadowBodyRatio*b && upperShadow <= b
}

func isShootingStar(c types.Candle) bool {
	b := body(c)
	if b == 0 {
		return false
	}

	lowerShadow := math.Min(c.Open, c.Close) - c.Low
	upperShadow := c.High - math.Max(c.Open, c.Close)

	return upperShadow >= shadowBodyRatio*b && lowerShadow <= b
}

func midpoint(c types.Candle) float64 {
	return (c.Open + c.Close) / 2
}
