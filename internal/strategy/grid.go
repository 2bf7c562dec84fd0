package strategy

import (
	"github.com/aurora-lab/aurora-trading/internal/indicator"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// GridStrategy trades deviations from a moving anchor: buy when price sits
// one grid step below the anchor, sell when one step above. The anchor is
// the SMA of the last GridAnchorPeriod closes.
type GridStrategy struct {
	config Config
}

func (s *GridStrategy) ID() ID {
	return IDGrid
}

func (s *GridStrategy) Evaluate(input Input) types.Signal {
	closes := input.Series.Closes()
	if len(closes) < s.config.GridAnchorPeriod {
		return insufficientData(s.ID(), input)
	}

	price, ok := refPrice(input)
	if !ok {
		return insufficientData(s.ID(), input)
	}

	anchorSeries := indicator.SMA(closes, s.config.GridAnchorPeriod)
	anchor := anchorSeries[len(anchorSeries)-1]

	raw := map[string]float64{
		"anchor":    anchor,
		"ref_price": price,
	}

	buyLevel := anchor * (1 - s.config.GridSpacingPct)
	sellLevel := anchor * (1 + s.config.GridSpacingPct)
	raw["buy_level"] = buyLevel
	raw["sell_level"] = sellLevel

	last, _ := input.Series.Last()

	var action types.SignalAction

	switch {
	case price <= buyLevel:
		action = types.SignalActionBuy
	case price >= sellLevel:
		action = types.SignalActionSell
	default:
		return holdSignal(s.ID(), input, []string{types.ReasonTagGridLevel}, raw)
	}

	return types.Signal{
		Time:          last.Time,
		Symbol:        input.Symbol,
		Strategy:      string(s.ID()),
		Action:        action,
		Confidence:    0.5,
		SuggestedQty:  suggestedQty(input.Balance, s.config.PositionSizePct, price),
		StopLossPct:   s.config.StopLossPct,
		TakeProfitPct: s.config.TakeProfitPct,
		ReasonTags:    []string{types.ReasonTagGridLevel},
		RawValue:      raw,
	}
}

var _ Strategy = (*GridStrategy)(nil)
