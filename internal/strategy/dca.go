package strategy

import (
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// DCAStrategy proposes a fixed quote-amount buy on every evaluation. The
// purchase cadence is the controller's concern (cooldowns and session caps
// gate how often an evaluation actually happens).
type DCAStrategy struct {
	config Config
}

func (s *DCAStrategy) ID() ID {
	return IDDCA
}

func (s *DCAStrategy) Evaluate(input Input) types.Signal {
	last, hasCandle := input.Series.Last()
	if !hasCandle {
		return insufficientData(s.ID(), input)
	}

	price, ok := refPrice(input)
	if !ok {
		return insufficientData(s.ID(), input)
	}

	return types.Signal{
		Time:          last.Time,
		Symbol:        input.Symbol,
		Strategy:      string(s.ID()),
		Action:        types.SignalActionBuy,
		Confidence:    0.5,
		SuggestedQty:  s.config.DCAQuoteAmount / price,
		StopLossPct:   s.config.StopLossPct,
		TakeProfitPct: s.config.TakeProfitPct,
		ReasonTags:    []string{types.ReasonTagDCAInterval},
		RawValue:      map[string]float64{"ref_price": price},
	}
}

var _ Strategy = (*DCAStrategy)(nil)
