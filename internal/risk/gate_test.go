package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

type GateTestSuite struct {
	suite.Suite
	gate *Gate
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (suite *GateTestSuite) SetupTest() {
	suite.gate = NewGate(DefaultLimits(), nil)
}

func buySignal(qty float64) types.Signal {
	return types.Signal{
		Time:         time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		Symbol:       "BTCUSDT",
		Strategy:     "rsi_only",
		Action:       types.SignalActionBuy,
		Confidence:   0.8,
		SuggestedQty: qty,
	}
}

func sellSignal(qty float64) types.Signal {
	s := buySignal(qty)
	s.Action = types.SignalActionSell

	return s
}

func snapshot(available float64) types.AccountSnapshot {
	return types.AccountSnapshot{
		TotalBalance:     available,
		AvailableBalance: available,
		Assets:           map[string]float64{},
		RetrievedAt:      time.Now(),
	}
}

func (suite *GateTestSuite) TestHoldPassesThrough() {
	decision := suite.gate.Validate(Input{
		Signal:   types.Signal{Action: types.SignalActionHold},
		Snapshot: snapshot(0),
	})
	suite.True(decision.Approved)
	suite.Empty(decision.Reason)
}

func (suite *GateTestSuite) TestZeroBalanceRejectsBuy() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.001),
		RefPrice: 50000,
		Snapshot: snapshot(0),
	})
	suite.False(decision.Approved)
	suite.Equal(ReasonZeroBalance, decision.Reason)
	suite.False(decision.Fatal)
}

func (suite *GateTestSuite) TestZeroBalanceShortCircuitsLaterChecks() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.001),
		RefPrice: 50000,
		Snapshot: snapshot(0),
		Counters: Counters{DailyTrades: 99},
	})
	suite.Equal(ReasonZeroBalance, decision.Reason)
}

func (suite *GateTestSuite) TestInsufficientBalance() {
	// Cost 0.01 * 50000 = 500 against 100 available
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.01),
		RefPrice: 50000,
		Snapshot: snapshot(100),
	})
	suite.False(decision.Approved)
	suite.Equal(ReasonInsufficientBalance, decision.Reason)
}

func (suite *GateTestSuite) TestHighCostWarnsButApproves() {
	limits := DefaultLimits()
	limits.MaxRiskPerTradePct = 1
	gate := NewGate(limits, nil)

	// Cost 90 against 100 available: above the 80% warning line
	decision := gate.Validate(Input{
		Signal:   buySignal(0.0018),
		RefPrice: 50000,
		Snapshot: snapshot(100),
	})
	suite.True(decision.Approved)
	suite.NotEmpty(decision.Warnings)
}

func (suite *GateTestSuite) TestSellWithoutAssetRejected() {
	decision := suite.gate.Validate(Input{
		Signal:    sellSignal(0.5),
		RefPrice:  50000,
		BaseAsset: "BTC",
		Snapshot:  snapshot(100),
	})
	suite.False(decision.Approved)
	suite.Equal(ReasonInsufficientAsset, decision.Reason)
}

func (suite *GateTestSuite) TestSellWithAssetApproved() {
	snap := snapshot(100)
	snap.Assets["BTC"] = 1

	decision := suite.gate.Validate(Input{
		Signal:    sellSignal(0.5),
		RefPrice:  50000,
		BaseAsset: "BTC",
		Snapshot:  snap,
	})
	suite.True(decision.Approved)
}

func (suite *GateTestSuite) TestDailyTradeCap() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.0001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
		Counters: Counters{DailyTrades: 5},
	})
	suite.False(decision.Approved)
	suite.Equal(ReasonDailyTradeCap, decision.Reason)
}

func (suite *GateTestSuite) TestDailyLossLimitIsFatal() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.0001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
		Counters: Counters{StartingBalance: 1000, RealizedLossToday: 60},
	})
	suite.False(decision.Approved)
	suite.Equal(ReasonDailyLossLimit, decision.Reason)
	suite.True(decision.Fatal)
}

func (suite *GateTestSuite) TestLossBelowLimitApproved() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.0001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
		Counters: Counters{StartingBalance: 1000, RealizedLossToday: 40},
	})
	suite.True(decision.Approved)
	suite.False(decision.Fatal)
}

func (suite *GateTestSuite) TestSessionCap() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.0001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
		Counters: Counters{SessionTrades: 1},
	})
	suite.False(decision.Approved)
	suite.Equal(ReasonSessionCap, decision.Reason)
}

func (suite *GateTestSuite) TestDailyCapCheckedBeforeSessionCap() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.0001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
		Counters: Counters{DailyTrades: 5, SessionTrades: 1},
	})
	suite.Equal(ReasonDailyTradeCap, decision.Reason)
}

func (suite *GateTestSuite) TestQtyClampedToRiskLimit() {
	// 2% of 1000 at price 50000 caps the quantity at 0.0004
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
	})
	suite.True(decision.Approved)
	suite.InDelta(0.0004, decision.Adjusted.SuggestedQty, 1e-12)
	suite.NotEmpty(decision.Warnings)
}

func (suite *GateTestSuite) TestSmallQtyNotClamped() {
	decision := suite.gate.Validate(Input{
		Signal:   buySignal(0.0001),
		RefPrice: 50000,
		Snapshot: snapshot(1000),
	})
	suite.True(decision.Approved)
	suite.Equal(0.0001, decision.Adjusted.SuggestedQty)
	suite.Empty(decision.Warnings)
}

func (suite *GateTestSuite) TestCanEnable() {
	suite.False(suite.gate.CanEnable(snapshot(0)))
	suite.False(suite.gate.CanEnable(snapshot(5)))
	suite.True(suite.gate.CanEnable(snapshot(100)))
}
