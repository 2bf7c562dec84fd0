package session

import (
	"time"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// BoxState is the breakout state machine position.
type BoxState string

const (
	StateAwaitingBox BoxState = "AWAITING_BOX"
	StateBoxFormed   BoxState = "BOX_FORMED"
	StateArmed       BoxState = "ARMED"
	StateCooldown    BoxState = "COOLDOWN"
)

// BreakoutDirection is the side of an armed breakout.
type BreakoutDirection int

const (
	BreakoutNone BreakoutDirection = 0
	BreakoutUp   BreakoutDirection = 1
	BreakoutDown BreakoutDirection = -1
)

// BoxConfig holds the breakout parameters.
type BoxConfig struct {
	// BufferPct is the fraction beyond the box edge a close must reach
	BufferPct float64 `yaml:"buffer_pct" validate:"gte=0,lt=1"`
	// ConfirmationCandles is the number of consecutive closes beyond the
	// buffer required before a trade is eligible; the breaching close
	// counts as the first
	ConfirmationCandles int `yaml:"confirmation_candles" validate:"gte=0"`
	CooldownMinutes     int `yaml:"cooldown_minutes" validate:"gte=0"`
	MaxTradesPerSession int `yaml:"max_trades_per_session" validate:"gte=0"`
	// OpeningRangeCandles is how many candles establish the box
	OpeningRangeCandles int `yaml:"opening_range_candles" validate:"gte=0"`
}

// DefaultBoxConfig mirrors the stock breakout settings.
func DefaultBoxConfig() BoxConfig {
	return BoxConfig{
		BufferPct:           0.05,
		ConfirmationCandles: 1,
		CooldownMinutes:     30,
		MaxTradesPerSession: 1,
		OpeningRangeCandles: 3,
	}
}

func (c BoxConfig) withDefaults() BoxConfig {
	defaults := DefaultBoxConfig()

	if c.BufferPct == 0 {
		c.BufferPct = defaults.BufferPct
	}

	if c.ConfirmationCandles == 0 {
		c.ConfirmationCandles = defaults.ConfirmationCandles
	}

	if c.CooldownMinutes == 0 {
		c.CooldownMinutes = defaults.CooldownMinutes
	}

	if c.MaxTradesPerSession == 0 {
		c.MaxTradesPerSession = defaults.MaxTradesPerSession
	}

	if c.OpeningRangeCandles == 0 {
		c.OpeningRangeCandles = defaults.OpeningRangeCandles
	}

	return c
}

// Box is the per-(symbol, session) breakout state. It is mutated only by
// the owning controller cycle, single writer per key.
type Box struct {
	Symbol  string
	Session string

	State             BoxState
	BoxHigh           float64
	BoxLow            float64
	Direction         BreakoutDirection
	ConfirmationsSeen int
	LastTradeTime     time.Time
	TradesThisSession int

	openingSeen int
	// lastCandleTime deduplicates polls: the same closed candle may be
	// observed many times before the next one closes
	lastCandleTime time.Time
	config         BoxConfig
}

// NewBox creates a box in AWAITING_BOX.
func NewBox(symbol, session string, config BoxConfig) *Box {
	return &Box{
		Symbol:  symbol,
		Session: session,
		State:   StateAwaitingBox,
		config:  config.withDefaults(),
	}
}

// upperTrigger and lowerTrigger are the buffered box edges.
func (b *Box) upperTrigger() float64 {
	return b.BoxHigh * (1 + b.config.BufferPct)
}

func (b *Box) lowerTrigger() float64 {
	return b.BoxLow * (1 - b.config.BufferPct)
}

// Observe feeds one closed candle into the state machine. A candle not
// strictly newer than the last observed one is ignored, so confirmation
// counts advance only on distinct closes regardless of the polling rate.
func (b *Box) Observe(candle types.Candle) {
	if !candle.Time.After(b.lastCandleTime) {
		return
	}

	b.lastCandleTime = candle.Time

	switch b.State {
	case StateAwaitingBox:
		b.extendOpeningRange(candle)
	case StateBoxFormed:
		b.checkBreach(candle)
	case StateArmed:
		b.confirm(candle)
	case StateCooldown:
		b.tickCooldown(candle.Time)
	}
}

func (b *Box) extendOpeningRange(candle types.Candle) {
	if b.openingSeen == 0 {
		b.BoxHigh = candle.High
		b.BoxLow = candle.Low
	} else {
		if candle.High > b.BoxHigh {
			b.BoxHigh = candle.High
		}

		if candle.Low < b.BoxLow {
			b.BoxLow = candle.Low
		}
	}

	b.openingSeen++
	if b.openingSeen >= b.config.OpeningRangeCandles {
		b.State = StateBoxFormed
	}
}

func (b *Box) checkBreach(candle types.Candle) {
	switch {
	case candle.Close > b.upperTrigger():
		b.State = StateArmed
		b.Direction = BreakoutUp
		b.ConfirmationsSeen = 1
	case candle.Close < b.lowerTrigger():
		b.State = StateArmed
		b.Direction = BreakoutDown
		b.ConfirmationsSeen = 1
	}
}

func (b *Box) confirm(candle types.Candle) {
	beyond := false

	switch b.Direction {
	case BreakoutUp:
		beyond = candle.Close >= b.upperTrigger()
	case BreakoutDown:
		beyond = candle.Close <= b.lowerTrigger()
	}

	if beyond {
		b.ConfirmationsSeen++

		return
	}

	// Close fell back inside the buffer: disarm
	b.State = StateBoxFormed
	b.Direction = BreakoutNone
	b.ConfirmationsSeen = 0
}

func (b *Box) tickCooldown(now time.Time) {
	if !b.cooldownElapsed(now) {
		return
	}

	if b.TradesThisSession >= b.config.MaxTradesPerSession {
		// Session cap reached: stay parked until the session resets
		return
	}

	b.State = StateBoxFormed
	b.Direction = BreakoutNone
	b.ConfirmationsSeen = 0
}

// CooldownElapsed reports whether enough time has passed since the last
// trade for this (symbol, session).
func (b *Box) CooldownElapsed(now time.Time) bool {
	return b.cooldownElapsed(now)
}

func (b *Box) cooldownElapsed(now time.Time) bool {
	if b.LastTradeTime.IsZero() {
		return true
	}

	return now.Sub(b.LastTradeTime) >= time.Duration(b.config.CooldownMinutes)*time.Minute
}

// TradeEligible reports whether an armed breakout may trade now: enough
// confirmations, cooldown elapsed, and session cap not reached.
func (b *Box) TradeEligible(now time.Time) bool {
	return b.State == StateArmed &&
		b.ConfirmationsSeen >= b.config.ConfirmationCandles &&
		b.cooldownElapsed(now) &&
		b.TradesThisSession < b.config.MaxTradesPerSession
}

// RecordTrade transitions to COOLDOWN after a trade is taken.
func (b *Box) RecordTrade(now time.Time) {
	b.TradesThisSession++
	b.LastTradeTime = now
	b.State = StateCooldown
	b.Direction = BreakoutNone
	b.ConfirmationsSeen = 0
}

// Reset returns the box to AWAITING_BOX at a session boundary, regardless
// of state.
func (b *Box) Reset() {
	b.State = StateAwaitingBox
	b.BoxHigh = 0
	b.BoxLow = 0
	b.Direction = BreakoutNone
	b.ConfirmationsSeen = 0
	b.TradesThisSession = 0
	b.openingSeen = 0
}
