package strategy

import (
	"math"

	"github.com/aurora-lab/aurora-trading/internal/indicator"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// advancedVoters is the number of sub-signals the majority rule runs over.
const advancedVoters = 5

// advancedMajority is the minimum number of agreeing sub-signals required
// to act.
const advancedMajority = 3

// AdvancedStrategy combines five sub-signals (RSI, MACD, volume,
// candlestick pattern, OBV) under a majority rule and derives stop loss and
// take profit distances from the ATR, floored at the static percentages.
// Support and resistance levels are reported for context but do not vote.
type AdvancedStrategy struct {
	config Config
}

func (s *AdvancedStrategy) ID() ID {
	return IDAdvanced
}

func (s *AdvancedStrategy) Evaluate(input Input) types.Signal {
	closes := input.Series.Closes()
	volumes := input.Series.Volumes()

	minLen := s.config.MACDSlowPeriod + s.config.MACDSignalPeriod - 1
	if s.config.RSIPeriod+1 > minLen {
		minLen = s.config.RSIPeriod + 1
	}

	if s.config.VolumeEMAPeriod > minLen {
		minLen = s.config.VolumeEMAPeriod
	}

	if len(closes) < minLen {
		return insufficientData(s.ID(), input)
	}

	price, ok := refPrice(input)
	if !ok {
		return insufficientData(s.ID(), input)
	}

	raw := map[string]float64{}

	// Sub-signal 1: RSI mean reversion
	rsi := indicator.RSI(closes, s.config.RSIPeriod)
	raw["rsi"] = rsi

	rsiVote := 0

	switch indicator.ClassifyRSI(rsi, s.config.RSIOversold, s.config.RSIOverbought) {
	case indicator.RSIZoneOversold:
		rsiVote = 1
	case indicator.RSIZoneOverbought:
		rsiVote = -1
	}

	// Sub-signal 2: MACD histogram momentum
	macdVote := 0

	if macd, hasMACD := indicator.MACD(closes, s.config.MACDFastPeriod, s.config.MACDSlowPeriod, s.config.MACDSignalPeriod); hasMACD {
		raw["macd_line"] = macd.Line
		raw["macd_signal"] = macd.Signal
		raw["macd_histogram"] = macd.Histogram

		if macd.Histogram > 0 {
			macdVote = 1
		} else if macd.Histogram < 0 {
			macdVote = -1
		}
	}

	// Sub-signal 3: volume surge in the direction of the last close
	volumeVote := 0

	if volumeEMA := indicator.EMA(volumes, s.config.VolumeEMAPeriod); volumeEMA != nil {
		emaValue := volumeEMA[len(volumeEMA)-1]
		lastVolume := volumes[len(volumes)-1]
		raw["volume"] = lastVolume
		raw["volume_ema"] = emaValue

		if lastVolume > emaValue*s.config.VolumeSurgeRatio && len(closes) >= 2 {
			if closes[len(closes)-1] > closes[len(closes)-2] {
				volumeVote = 1
			} else if closes[len(closes)-1] < closes[len(closes)-2] {
				volumeVote = -1
			}
		}
	}

	// Sub-signal 4: candlestick patterns
	patternVote := indicator.PatternSignal(input.Series)
	raw["pattern_score"] = indicator.PatternScore(input.Series)

	// Sub-signal 5: OBV trend
	obvVote := indicator.OBVTrend(closes, volumes, s.config.OBVLookback)

	bullish := 0
	bearish := 0

	for _, vote := range []int{rsiVote, macdVote, volumeVote, patternVote, obvVote} {
		switch vote {
		case 1:
			bullish++
		case -1:
			bearish++
		}
	}

	raw["bullish_votes"] = float64(bullish)
	raw["bearish_votes"] = float64(bearish)

	// Support/resistance context
	levels := indicator.SupportResistance(closes, indicator.DefaultSupportResistanceWindow)
	if levels.HasSupport {
		raw["support"] = levels.Support
	}

	if levels.HasResistance {
		raw["resistance"] = levels.Resistance
	}

	var action types.SignalAction

	var tags []string

	switch {
	case bullish >= advancedMajority:
		action = types.SignalActionBuy
		tags = []string{types.ReasonTagMajorityBullish}
	case bearish >= advancedMajority:
		action = types.SignalActionSell
		tags = []string{types.ReasonTagMajorityBearish}
	default:
		return holdSignal(s.ID(), input, []string{types.ReasonTagNoMajority}, raw)
	}

	stopLossPct, takeProfitPct := s.dynamicExits(input.Series, price, raw)

	last, _ := input.Series.Last()
	votes := bullish
	if action == types.SignalActionSell {
		votes = bearish
	}

	return types.Signal{
		Time:          last.Time,
		Symbol:        input.Symbol,
		Strategy:      string(s.ID()),
		Action:        action,
		Confidence:    float64(votes) / float64(advancedVoters),
		SuggestedQty:  suggestedQty(input.Balance, s.config.PositionSizePct, price),
		StopLossPct:   stopLossPct,
		TakeProfitPct: takeProfitPct,
		ReasonTags:    tags,
		RawValue:      raw,
	}
}

// dynamicExits derives exit distances from the ATR, floored at the static
// percentages so thin volatility never produces an unusably tight stop.
func (s *AdvancedStrategy) dynamicExits(series types.Series, price float64, raw map[string]float64) (float64, float64) {
	stopLossPct := s.config.StopLossPct
	takeProfitPct := s.config.TakeProfitPct

	if atr, ok := indicator.ATR(series, s.config.ATRPeriod); ok && price > 0 {
		raw["atr"] = atr

		stopLossPct = math.Max(stopLossPct, atr*s.config.ATRStopMultiplier/price)
		takeProfitPct = math.Max(takeProfitPct, atr*s.config.ATRTakeMultiplier/price)
	}

	return stopLossPct, takeProfitPct
}

var _ Strategy = (*AdvancedStrategy)(nil)
