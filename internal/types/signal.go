package types

import "time"

type SignalAction string

const (
	// SignalActionBuy tells the controller to open or increase a long position
	SignalActionBuy SignalAction = "BUY"
	// SignalActionSell tells the controller to reduce or close a long position
	SignalActionSell SignalAction = "SELL"
	// SignalActionHold tells the controller to take no action this cycle
	SignalActionHold SignalAction = "HOLD"
)

// Reason tags attached to signals. Stable identifiers consumed by the event
// sink and by tests, never raw error text.
const (
	ReasonTagInsufficientData = "INSUFFICIENT_DATA"
	ReasonTagRSIOversold      = "RSI_OVERSOLD"
	ReasonTagRSIOverbought    = "RSI_OVERBOUGHT"
	ReasonTagRSINeutral       = "RSI_NEUTRAL"
	ReasonTagVolumeSurge      = "VOLUME_SURGE"
	ReasonTagVolumeWeak       = "VOLUME_WEAK"
	ReasonTagMajorityBullish  = "MAJORITY_BULLISH"
	ReasonTagMajorityBearish  = "MAJORITY_BEARISH"
	ReasonTagNoMajority       = "NO_MAJORITY"
	ReasonTagGridLevel        = "GRID_LEVEL"
	ReasonTagDCAInterval      = "DCA_INTERVAL"
)

// Signal is the outcome of one strategy evaluation. Produced fresh each
// cycle and never mutated after creation.
type Signal struct {
	// Time is the time of the evaluation that produced the signal
	Time time.Time
	// Symbol is the trading pair the signal applies to
	Symbol string
	// Strategy is the name of the strategy that produced the signal
	Strategy string
	// Action is the proposed action
	Action SignalAction
	// Confidence is the strategy's conviction in the range 0..1
	Confidence float64
	// SuggestedQty is the proposed base-asset quantity, before risk clamping
	SuggestedQty float64
	// StopLossPct is the proposed stop loss distance as a fraction of entry
	StopLossPct float64
	// TakeProfitPct is the proposed take profit distance as a fraction of entry
	TakeProfitPct float64
	// ReasonTags are stable identifiers explaining the decision
	ReasonTags []string
	// RawValue carries the indicator readings behind the decision
	RawValue map[string]float64
}

// IsActionable reports whether the signal proposes a trade.
func (s Signal) IsActionable() bool {
	return s.Action == SignalActionBuy || s.Action == SignalActionSell
}

// HasReasonTag reports whether the signal carries the given reason tag.
func (s Signal) HasReasonTag(tag string) bool {
	for _, t := range s.ReasonTags {
		if t == tag {
			return true
		}
	}

	return false
}
