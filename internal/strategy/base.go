package strategy

import (
	"math"

	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/internal/utils"
)

// refPrice resolves the reference price for sizing: the ticker price when
// available, otherwise the last close.
func refPrice(input Input) (float64, bool) {
	if input.RefPrice > 0 {
		return input.RefPrice, true
	}

	if last, ok := input.Series.Last(); ok && last.Close > 0 {
		return last.Close, true
	}

	return 0, false
}

// holdSignal builds a HOLD signal with the given reason tags. The timestamp
// is pinned to the last candle so re-evaluating an unchanged series yields
// an identical signal.
func holdSignal(id ID, input Input, tags []string, raw map[string]float64) types.Signal {
	signal := types.Signal{
		Symbol:     input.Symbol,
		Strategy:   string(id),
		Action:     types.SignalActionHold,
		ReasonTags: tags,
		RawValue:   raw,
	}

	if last, ok := input.Series.Last(); ok {
		signal.Time = last.Time
	}

	return signal
}

// insufficientData is the HOLD emitted when the series cannot support the
// strategy's indicators.
func insufficientData(id ID, input Input) types.Signal {
	return holdSignal(id, input, []string{types.ReasonTagInsufficientData}, nil)
}

// suggestedQty sizes an entry as a fraction of the available balance. Fees
// are accounted for downstream by the risk gate's clamp.
func suggestedQty(balance, positionSizePct, price float64) float64 {
	return utils.CalculateOrderQuantityByPercentage(balance, price, 0, positionSizePct)
}

// confidenceFromDistance scales the distance of an oscillator reading from
// its threshold into 0..1.
func confidenceFromDistance(value, threshold, span float64) float64 {
	if span <= 0 {
		return 0
	}

	confidence := math.Abs(value-threshold) / span
	if confidence > 1 {
		return 1
	}

	return confidence
}
