package strategy

import (
	"github.com/aurora-lab/aurora-trading/internal/indicator"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// RSIOnlyStrategy buys strict RSI oversold and sells strict RSI overbought.
// Boundary readings (exactly at a threshold) are neutral.
type RSIOnlyStrategy struct {
	config Config
}

func (s *RSIOnlyStrategy) ID() ID {
	return IDRSIOnly
}

func (s *RSIOnlyStrategy) Evaluate(input Input) types.Signal {
	closes := input.Series.Closes()
	if len(closes) < s.config.RSIPeriod+1 {
		return insufficientData(s.ID(), input)
	}

	price, ok := refPrice(input)
	if !ok {
		return insufficientData(s.ID(), input)
	}

	rsi := indicator.RSI(closes, s.config.RSIPeriod)
	raw := map[string]float64{"rsi": rsi}

	zone := indicator.ClassifyRSI(rsi, s.config.RSIOversold, s.config.RSIOverbought)

	last, _ := input.Series.Last()

	switch zone {
	case indicator.RSIZoneOversold:
		return types.Signal{
			Time:          last.Time,
			Symbol:        input.Symbol,
			Strategy:      string(s.ID()),
			Action:        types.SignalActionBuy,
			Confidence:    confidenceFromDistance(rsi, s.config.RSIOversold, s.config.RSIOversold),
			SuggestedQty:  suggestedQty(input.Balance, s.config.PositionSizePct, price),
			StopLossPct:   s.config.StopLossPct,
			TakeProfitPct: s.config.TakeProfitPct,
			ReasonTags:    []string{types.ReasonTagRSIOversold},
			RawValue:      raw,
		}
	case indicator.RSIZoneOverbought:
		return types.Signal{
			Time:          last.Time,
			Symbol:        input.Symbol,
			Strategy:      string(s.ID()),
			Action:        types.SignalActionSell,
			Confidence:    confidenceFromDistance(rsi, s.config.RSIOverbought, 100-s.config.RSIOverbought),
			SuggestedQty:  suggestedQty(input.Balance, s.config.PositionSizePct, price),
			StopLossPct:   s.config.StopLossPct,
			TakeProfitPct: s.config.TakeProfitPct,
			ReasonTags:    []string{types.ReasonTagRSIOverbought},
			RawValue:      raw,
		}
	default:
		return holdSignal(s.ID(), input, []string{types.ReasonTagRSINeutral}, raw)
	}
}

var _ Strategy = (*RSIOnlyStrategy)(nil)
