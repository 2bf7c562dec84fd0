// Package risk validates proposed signals against account state and
// configured limits. Every order path routes through the gate; rejections
// are values, not errors.
package risk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/logger"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// RejectReason is a stable identifier for a gate rejection, consumed by the
// event sink and by the controller.
type RejectReason string

const (
	ReasonZeroBalance         RejectReason = "ZERO_BALANCE"
	ReasonInsufficientBalance RejectReason = "INSUFFICIENT_BALANCE"
	ReasonInsufficientAsset   RejectReason = "INSUFFICIENT_ASSET"
	ReasonDailyTradeCap       RejectReason = "DAILY_TRADE_CAP"
	ReasonDailyLossLimit      RejectReason = "DAILY_LOSS_LIMIT"
	ReasonSessionCap          RejectReason = "SESSION_CAP"
)

// Limits are the externally supplied risk parameters, read-only to the gate.
type Limits struct {
	MaxDailyTrades      int     `yaml:"max_daily_trades" validate:"gte=0"`
	MaxRiskPerTradePct  float64 `yaml:"max_risk_per_trade_pct" validate:"gt=0,lte=1"`
	DailyLossLimitPct   float64 `yaml:"daily_loss_limit_pct" validate:"gte=0,lte=1"`
	MaxTradesPerSession int     `yaml:"max_trades_per_session" validate:"gte=0"`
	// MinBalanceToEnable gates the controller's DISABLED to ENABLED transition
	MinBalanceToEnable float64 `yaml:"min_balance_to_enable" validate:"gte=0"`
}

// DefaultLimits returns the stock risk parameters.
func DefaultLimits() Limits {
	return Limits{
		MaxDailyTrades:      5,
		MaxRiskPerTradePct:  0.02,
		DailyLossLimitPct:   0.05,
		MaxTradesPerSession: 1,
		MinBalanceToEnable:  10,
	}
}

// Counters carry the running tallies the gate checks against. Owned by the
// controller and reset on day and session boundaries.
type Counters struct {
	// DailyTrades is the number of trades taken since the UTC day started
	DailyTrades int
	// RealizedLossToday is the day's realized loss, positive when net down
	RealizedLossToday float64
	// StartingBalance is the total balance at the start of the UTC day
	StartingBalance float64
	// SessionTrades is the number of trades taken in the current session
	SessionTrades int
}

// Input is one gate evaluation request. The snapshot must be freshly
// fetched; the gate never caches account state.
type Input struct {
	Signal types.Signal
	// RefPrice is the reference price used for cost estimates and clamping
	RefPrice float64
	// BaseAsset is the base asset of the signal's symbol, for SELL checks
	BaseAsset string
	Snapshot types.AccountSnapshot
	Counters Counters
}

// Decision is the gate's verdict on a single signal.
type Decision struct {
	Approved bool
	// Adjusted is the signal to execute, with the quantity possibly clamped
	Adjusted types.Signal
	Reason   RejectReason
	// Fatal rejections require the controller to force-disable auto-trading
	Fatal    bool
	Warnings []string
}

// Gate applies the ordered risk checks.
type Gate struct {
	limits Limits
	logger *logger.Logger
}

// NewGate creates a gate with the given limits.
func NewGate(limits Limits, log *logger.Logger) *Gate {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Gate{limits: limits, logger: log}
}

// Validate runs the checks in order; the first failure short-circuits. A
// non-actionable signal passes through untouched.
func (g *Gate) Validate(input Input) Decision {
	decision := Decision{Adjusted: input.Signal}

	if !input.Signal.IsActionable() {
		decision.Approved = true

		return decision
	}

	if reject, ok := g.checkBalance(input, &decision); ok {
		return g.rejected(input, decision, reject)
	}

	if reject, ok := g.checkCounters(input); ok {
		decision.Fatal = reject == ReasonDailyLossLimit

		return g.rejected(input, decision, reject)
	}

	g.clampQty(input, &decision)
	decision.Approved = true

	return decision
}

func (g *Gate) checkBalance(input Input, decision *Decision) (RejectReason, bool) {
	available := input.Snapshot.AvailableBalance

	if available <= 0 {
		return ReasonZeroBalance, true
	}

	switch input.Signal.Action {
	case types.SignalActionBuy:
		cost := input.Signal.SuggestedQty * input.RefPrice
		if cost > available {
			return ReasonInsufficientBalance, true
		}

		if cost > 0.8*available {
			decision.Warnings = append(decision.Warnings,
				fmt.Sprintf("order cost %.2f exceeds 80%% of available balance %.2f", cost, available))
		}
	case types.SignalActionSell:
		if input.Snapshot.AssetQty(input.BaseAsset) < input.Signal.SuggestedQty {
			return ReasonInsufficientAsset, true
		}
	}

	return "", false
}

func (g *Gate) checkCounters(input Input) (RejectReason, bool) {
	if g.limits.MaxDailyTrades > 0 && input.Counters.DailyTrades >= g.limits.MaxDailyTrades {
		return ReasonDailyTradeCap, true
	}

	if g.dailyLossBreached(input.Counters) {
		return ReasonDailyLossLimit, true
	}

	if g.limits.MaxTradesPerSession > 0 && input.Counters.SessionTrades >= g.limits.MaxTradesPerSession {
		return ReasonSessionCap, true
	}

	return "", false
}

func (g *Gate) dailyLossBreached(counters Counters) bool {
	if g.limits.DailyLossLimitPct <= 0 || counters.StartingBalance <= 0 {
		return false
	}

	return counters.RealizedLossToday/counters.StartingBalance >= g.limits.DailyLossLimitPct
}

// clampQty caps the quantity at maxRiskPerTradePct of the available balance.
func (g *Gate) clampQty(input Input, decision *Decision) {
	if g.limits.MaxRiskPerTradePct <= 0 || input.RefPrice <= 0 {
		return
	}

	maxQty := g.limits.MaxRiskPerTradePct * input.Snapshot.AvailableBalance / input.RefPrice
	if decision.Adjusted.SuggestedQty <= maxQty {
		return
	}

	decision.Warnings = append(decision.Warnings,
		fmt.Sprintf("quantity %.8f clamped to %.8f", decision.Adjusted.SuggestedQty, maxQty))
	decision.Adjusted.SuggestedQty = maxQty
}

func (g *Gate) rejected(input Input, decision Decision, reason RejectReason) Decision {
	decision.Approved = false
	decision.Reason = reason

	g.logger.Info("risk gate rejected signal",
		zap.String("symbol", input.Signal.Symbol),
		zap.String("action", string(input.Signal.Action)),
		zap.String("reason", string(reason)),
		zap.Bool("fatal", decision.Fatal))

	return decision
}

// CanEnable reports whether a fresh snapshot allows the controller to
// transition to ENABLED.
func (g *Gate) CanEnable(snapshot types.AccountSnapshot) bool {
	if snapshot.AvailableBalance <= 0 {
		return false
	}

	return snapshot.AvailableBalance >= g.limits.MinBalanceToEnable
}
