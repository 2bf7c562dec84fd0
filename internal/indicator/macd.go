package indicator

// Default MACD parameters.
const (
	DefaultMACDFastPeriod   = 12
	DefaultMACDSlowPeriod   = 26
	DefaultMACDSignalPeriod = 9
)

// MACDValue holds one MACD observation.
type MACDValue struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACDResult holds the emitted MACD points. Points before the slow+signal
// warm-up are not emitted; Offset is the input index of Values[0].
type MACDResult struct {
	Values []MACDValue
	Offset int
}

// MACDSeries computes MACD over the closing prices. The MACD line is
// fastEMA-slowEMA, the signal line an EMA of the MACD line, the histogram
// their difference. Returns an empty result (nil Values) when the series is
// shorter than slow+signal-1.
func MACDSeries(closes []float64, fastPeriod, slowPeriod, signalPeriod int) MACDResult {
	if fastPeriod <= 0 || slowPeriod <= 0 || signalPeriod <= 0 || fastPeriod >= slowPeriod {
		return MACDResult{}
	}

	minLen := slowPeriod + signalPeriod - 1
	if len(closes) < minLen {
		return MACDResult{}
	}

	fastEMA := EMA(closes, fastPeriod) // starts at index fastPeriod-1
	slowEMA := EMA(closes, slowPeriod) // starts at index slowPeriod-1

	// MACD line exists from index slowPeriod-1 onward
	macdLine := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macdLine[i] = fastEMA[i+(slowPeriod-fastPeriod)] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signalPeriod) // starts signalPeriod-1 into macdLine

	offset := slowPeriod + signalPeriod - 2
	values := make([]MACDValue, len(signalLine))

	for i := range signalLine {
		line := macdLine[i+signalPeriod-1]
		values[i] = MACDValue{
			Line:      line,
			Signal:    signalLine[i],
			Histogram: line - signalLine[i],
		}
	}

	return MACDResult{Values: values, Offset: offset}
}

// MACD returns the latest MACD observation, or false when the series is too
// short for the warm-up.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (MACDValue, bool) {
	result := MACDSeries(closes, fastPeriod, slowPeriod, signalPeriod)
	if len(result.Values) == 0 {
		return MACDValue{}, false
	}

	return result.Values[len(result.Values)-1], true
}
