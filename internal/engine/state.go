// Package engine implements the auto-trading controller: an explicit state
// machine owning one (user, pair) and driving the evaluation cycle.
package engine

import (
	"time"

	"github.com/aurora-lab/aurora-trading/internal/risk"
	"github.com/aurora-lab/aurora-trading/internal/strategy"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// Status is the controller's trading state.
type Status string

const (
	StatusDisabled Status = "DISABLED"
	StatusEnabled  Status = "ENABLED"
)

// AutoTradingState is the per-(user, pair) trading state. It is owned by
// exactly one Controller and passed by handle, never shared globally.
// Mutation happens only under the controller's locks.
type AutoTradingState struct {
	UserID string
	Symbol string

	Status   Status
	Strategy strategy.ID

	StartedAt time.Time
	StoppedAt time.Time
	// DisableReason records why the last disable happened; FATAL reasons
	// require an explicit re-enable
	DisableReason string
	ForceDisabled bool

	TotalTrades       int
	ConsecutiveLosses int
	// Counters feed the risk gate each cycle
	Counters risk.Counters
	// counterDay is the UTC day the daily counters belong to
	counterDay string

	// position tracks the held base quantity and its average entry price
	// for realized PnL accounting
	positionQty   float64
	positionPrice float64

	LastCycleAt time.Time
	LastSignal  types.Signal
}

// NewAutoTradingState creates a disabled state for one user and pair.
func NewAutoTradingState(userID, symbol string, strategyID strategy.ID) *AutoTradingState {
	return &AutoTradingState{
		UserID:   userID,
		Symbol:   symbol,
		Status:   StatusDisabled,
		Strategy: strategyID,
	}
}

// Enabled reports whether trading is on.
func (s *AutoTradingState) Enabled() bool {
	return s.Status == StatusEnabled
}

// rollDay resets the daily counters when the UTC day changes. The starting
// balance is filled in from the next snapshot.
func (s *AutoTradingState) rollDay(now time.Time) bool {
	day := now.UTC().Format("2006-01-02")
	if day == s.counterDay {
		return false
	}

	s.counterDay = day
	s.Counters.DailyTrades = 0
	s.Counters.RealizedLossToday = 0
	s.Counters.StartingBalance = 0

	return true
}

// recordFill folds one filled order into the position and the counters.
// Returns the realized PnL, zero for buys.
func (s *AutoTradingState) recordFill(side types.PurchaseType, qty, price float64) float64 {
	s.TotalTrades++
	s.Counters.DailyTrades++

	switch side {
	case types.PurchaseTypeBuy:
		total := s.positionQty + qty
		if total > 0 {
			s.positionPrice = (s.positionPrice*s.positionQty + price*qty) / total
		}

		s.positionQty = total

		return 0
	case types.PurchaseTypeSell:
		if qty > s.positionQty {
			qty = s.positionQty
		}

		pnl := (price - s.positionPrice) * qty
		s.positionQty -= qty

		if pnl < 0 {
			s.Counters.RealizedLossToday += -pnl
			s.ConsecutiveLosses++
		} else {
			s.ConsecutiveLosses = 0
		}

		return pnl
	}

	return 0
}
