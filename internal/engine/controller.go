package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/config"
	"github.com/aurora-lab/aurora-trading/internal/event"
	"github.com/aurora-lab/aurora-trading/internal/exchange"
	"github.com/aurora-lab/aurora-trading/internal/filter"
	"github.com/aurora-lab/aurora-trading/internal/logger"
	"github.com/aurora-lab/aurora-trading/internal/metrics"
	"github.com/aurora-lab/aurora-trading/internal/risk"
	"github.com/aurora-lab/aurora-trading/internal/session"
	"github.com/aurora-lab/aurora-trading/internal/strategy"
	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// Deps are the controller's collaborators.
type Deps struct {
	Market   exchange.MarketDataSource
	Account  exchange.AccountService
	Executor *exchange.Executor
	Strategy strategy.Strategy
	Filter   *filter.RSIFilter
	Sessions *session.Manager
	Gate     *risk.Gate
	Sink     event.Sink
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

// pendingOrder is an ambiguous submission awaiting reconciliation.
type pendingOrder struct {
	symbol        string
	clientOrderID string
	side          types.PurchaseType
}

// Controller owns the auto-trading state machine for one (user, pair) and
// drives its evaluation cycle. Cycles for the same pair never overlap.
type Controller struct {
	cfg     config.EngineConfig
	deps    Deps
	fetcher *exchange.KlineFetcher

	// cycleMu serializes cycles; stateMu guards state for readers
	cycleMu sync.Mutex
	stateMu sync.Mutex
	enabled atomic.Bool
	running atomic.Bool

	state   *AutoTradingState
	pending *pendingOrder
	// trailing follows the open position's stop level between cycles;
	// nil while flat. Mutated only inside the serialized cycle.
	trailing *risk.TrailingStop

	now func() time.Time
}

// NewController creates a disabled controller.
func NewController(cfg config.EngineConfig, deps Deps) (*Controller, error) {
	strategyID, err := strategy.ParseID(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}

	if deps.Sink == nil {
		deps.Sink = event.NewLogSink(deps.Logger)
	}

	return &Controller{
		cfg:     cfg,
		deps:    deps,
		fetcher: exchange.NewKlineFetcher(deps.Market, cfg.Intervals, deps.Logger),
		state:   NewAutoTradingState(cfg.UserID, cfg.Symbol, strategyID),
		now:     time.Now,
	}, nil
}

// Enable transitions to ENABLED after a fresh balance check. A balance
// below the configured minimum refuses the transition.
func (c *Controller) Enable(ctx context.Context) error {
	snapshot, err := c.deps.Account.GetSnapshot(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEnableRefused, "could not verify balance", err)
	}

	if !c.deps.Gate.CanEnable(snapshot) {
		return errors.Newf(errors.ErrCodeEnableRefused,
			"available balance %.2f below minimum", snapshot.AvailableBalance)
	}

	c.stateMu.Lock()
	c.state.Status = StatusEnabled
	c.state.StartedAt = c.now()
	c.state.DisableReason = ""
	c.state.ForceDisabled = false
	c.stateMu.Unlock()

	c.enabled.Store(true)
	c.deps.Metrics.SetEnabled(c.cfg.Symbol, true)
	c.publish(event.Event{Type: event.TypeEngineEnabled})
	c.deps.Logger.Info("auto-trading enabled",
		zap.String("user", c.cfg.UserID),
		zap.String("symbol", c.cfg.Symbol))

	return nil
}

// Disable takes effect immediately: the current cycle will not submit a
// new order. Open positions are left untouched.
func (c *Controller) Disable(reason string) {
	c.disable(reason, false)
}

func (c *Controller) disable(reason string, forced bool) {
	c.enabled.Store(false)

	c.stateMu.Lock()
	c.state.Status = StatusDisabled
	c.state.StoppedAt = c.now()
	c.state.DisableReason = reason
	c.state.ForceDisabled = forced
	c.stateMu.Unlock()

	c.deps.Metrics.SetEnabled(c.cfg.Symbol, false)

	eventType := event.TypeEngineDisabled
	if forced {
		eventType = event.TypeForcedDisable
	}

	c.publish(event.Event{Type: eventType, Reason: reason})
	c.deps.Logger.Info("auto-trading disabled",
		zap.String("user", c.cfg.UserID),
		zap.String("symbol", c.cfg.Symbol),
		zap.String("reason", reason),
		zap.Bool("forced", forced))
}

// StatusReport is a point-in-time view of the controller.
type StatusReport struct {
	Running           bool
	Enabled           bool
	ForceDisabled     bool
	DisableReason     string
	UserID            string
	Symbol            string
	Strategy          strategy.ID
	TotalTrades       int
	DailyTrades       int
	ConsecutiveLosses int
	LastCycleAt       time.Time
	ActiveSessions    []string
}

// Status reports the controller state.
func (c *Controller) Status() StatusReport {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	report := StatusReport{
		Running:           c.running.Load(),
		Enabled:           c.state.Enabled(),
		ForceDisabled:     c.state.ForceDisabled,
		DisableReason:     c.state.DisableReason,
		UserID:            c.state.UserID,
		Symbol:            c.state.Symbol,
		Strategy:          c.state.Strategy,
		TotalTrades:       c.state.TotalTrades,
		DailyTrades:       c.state.Counters.DailyTrades,
		ConsecutiveLosses: c.state.ConsecutiveLosses,
		LastCycleAt:       c.state.LastCycleAt,
	}

	for _, w := range c.deps.Sessions.ActiveWindows(c.now()) {
		report.ActiveSessions = append(report.ActiveSessions, w.Name)
	}

	return report
}

// Run drives the polling loop until the context is canceled.
func (c *Controller) Run(ctx context.Context) {
	c.running.Store(true)
	defer c.running.Store(false)

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.enabled.Load() {
				continue
			}

			if err := c.RunCycle(ctx); err != nil &&
				!errors.HasCode(err, errors.ErrCodeCycleInProgress) &&
				!errors.HasCode(err, errors.ErrCodeEngineDisabled) {
				c.deps.Logger.Error("evaluation cycle failed",
					zap.String("symbol", c.cfg.Symbol),
					zap.Error(err))
			}
		}
	}
}

// RunCycle executes one evaluation cycle. A cycle already in flight for
// this pair makes it a no-op error; cycles never overlap.
func (c *Controller) RunCycle(ctx context.Context) error {
	if !c.cycleMu.TryLock() {
		return errors.New(errors.ErrCodeCycleInProgress, "cycle already running for this pair")
	}
	defer c.cycleMu.Unlock()

	if !c.enabled.Load() {
		return errors.New(errors.ErrCodeEngineDisabled, "auto-trading is disabled")
	}

	started := c.now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CycleTimeout)
	defer cancel()

	outcome, err := c.cycle(ctx, started)
	c.deps.Metrics.ObserveCycle(outcome, time.Since(started))

	c.stateMu.Lock()
	c.state.LastCycleAt = started
	c.stateMu.Unlock()

	return err
}

func (c *Controller) cycle(ctx context.Context, now time.Time) (string, error) {
	for _, name := range c.deps.Sessions.ResetClosedSessions(now) {
		c.publish(event.Event{Type: event.TypeSessionReset, Detail: name})
	}

	if c.pending != nil {
		if err := c.resolvePending(ctx); err != nil {
			return "aborted", c.abort(err, "pending order unresolved")
		}
	}

	c.stateMu.Lock()
	dayRolled := c.state.rollDay(now)
	c.stateMu.Unlock()

	snapshot, err := c.deps.Account.GetSnapshot(ctx)
	if err != nil {
		return "aborted", c.abort(err, "account snapshot failed")
	}

	c.deps.Metrics.SetAvailableBalance(snapshot.AvailableBalance)

	c.stateMu.Lock()
	if dayRolled || c.state.Counters.StartingBalance == 0 {
		c.state.Counters.StartingBalance = snapshot.TotalBalance
	}
	counters := c.state.Counters
	c.stateMu.Unlock()

	active := c.deps.Sessions.ActiveWindows(now)
	if len(active) == 0 {
		return "idle", nil
	}

	series, interval, err := c.fetcher.FetchPreferred(ctx, c.cfg.Symbol, c.cfg.KlineLimit)
	if err != nil {
		return "aborted", c.abort(err, "kline fetch failed")
	}

	// Every active session's box observes the candle; a trade must honor
	// the discipline of each session it falls in
	boxes := make([]*session.Box, 0, len(active))
	for _, w := range active {
		boxes = append(boxes, c.deps.Sessions.Box(c.cfg.Symbol, w.Name))
	}

	if last, ok := series.Last(); ok {
		for _, box := range boxes {
			box.Observe(last)
		}
	}

	refPrice, err := c.deps.Market.GetTickerPrice(ctx, c.cfg.Symbol)
	if err != nil {
		last, ok := series.Last()
		if !ok {
			return "aborted", c.abort(err, "no reference price")
		}

		refPrice = last.Close
	}

	c.updateTrailing(refPrice)

	signal := c.deps.Strategy.Evaluate(strategy.Input{
		Symbol:   c.cfg.Symbol,
		Series:   series,
		Balance:  snapshot.AvailableBalance,
		RefPrice: refPrice,
	})

	c.deps.Metrics.RecordSignal(signal.Strategy, string(signal.Action))

	c.stateMu.Lock()
	c.state.LastSignal = signal
	c.stateMu.Unlock()

	c.deps.Logger.Debug("strategy evaluated",
		zap.String("symbol", c.cfg.Symbol),
		zap.String("interval", string(interval)),
		zap.String("action", string(signal.Action)),
		zap.Strings("reasons", signal.ReasonTags))

	if !signal.IsActionable() {
		return "hold", nil
	}

	c.publish(event.Event{
		Type:     event.TypeSignal,
		Strategy: signal.Strategy,
		Action:   signal.Action,
		Qty:      signal.SuggestedQty,
		Price:    refPrice,
		Reason:   firstReason(signal),
	})

	if !cooldownElapsed(boxes, now) {
		c.publish(event.Event{
			Type:     event.TypeSignalRejected,
			Strategy: signal.Strategy,
			Action:   signal.Action,
			Reason:   "COOLDOWN",
		})

		return "cooldown", nil
	}

	if result := c.checkFilter(ctx, signal); !result.Passed {
		c.publish(event.Event{
			Type:     event.TypeSignalFiltered,
			Strategy: signal.Strategy,
			Action:   signal.Action,
			Detail:   result.Detail,
		})

		return "filtered", nil
	}

	counters.SessionTrades = maxSessionTrades(boxes)

	decision := c.deps.Gate.Validate(risk.Input{
		Signal:    signal,
		RefPrice:  refPrice,
		BaseAsset: c.cfg.BaseAsset,
		Snapshot:  snapshot,
		Counters:  counters,
	})

	if !decision.Approved {
		c.deps.Metrics.RecordRejection(string(decision.Reason))
		c.publish(event.Event{
			Type:     event.TypeSignalRejected,
			Strategy: signal.Strategy,
			Action:   signal.Action,
			Reason:   string(decision.Reason),
		})

		if decision.Fatal {
			c.disable(string(decision.Reason), true)
		}

		return "rejected", nil
	}

	// Disable may have landed while we were evaluating; an approved signal
	// must not be submitted after it
	if !c.enabled.Load() {
		c.publish(event.Event{
			Type:     event.TypeSignalRejected,
			Strategy: signal.Strategy,
			Action:   signal.Action,
			Reason:   "DISABLED",
		})

		return "disabled", nil
	}

	return c.submit(ctx, boxes, decision.Adjusted, refPrice, now)
}

func (c *Controller) submit(ctx context.Context, boxes []*session.Box, signal types.Signal, refPrice float64, now time.Time) (string, error) {
	order := c.buildOrder(signal, refPrice)
	stopLoss, takeProfit := exitLevels(order)

	c.publish(event.Event{
		Type:       event.TypeOrderSubmitted,
		Strategy:   signal.Strategy,
		Action:     signal.Action,
		Qty:        order.Quantity,
		Price:      refPrice,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	})

	result, err := c.deps.Executor.Execute(ctx, order)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeOrderAmbiguous) {
			// Already-sent order: remember it and reconcile next cycle
			// instead of abandoning it
			c.pending = &pendingOrder{
				symbol:        order.Symbol,
				clientOrderID: order.ID,
				side:          order.Side,
			}
		}

		c.deps.Metrics.RecordOrder(string(types.OrderStatusFailed))
		c.publish(event.Event{
			Type:     event.TypeOrderFailed,
			Strategy: signal.Strategy,
			Action:   signal.Action,
			Qty:      signal.SuggestedQty,
			Price:    refPrice,
			Detail:   err.Error(),
		})

		return "aborted", c.abort(err, "order submission failed")
	}

	for _, box := range boxes {
		box.RecordTrade(now)
	}

	c.stateMu.Lock()
	c.state.recordFill(order.Side, result.ExecutedQty, result.AvgPrice)
	position := c.state.positionQty
	c.stateMu.Unlock()

	if order.Side == types.PurchaseTypeBuy && signal.StopLossPct > 0 {
		c.trailing = risk.NewTrailingStop(result.AvgPrice,
			result.AvgPrice*(1-signal.StopLossPct), signal.StopLossPct, signal.TakeProfitPct)
	} else if order.Side == types.PurchaseTypeSell && position <= 0 {
		c.trailing = nil
	}

	c.deps.Metrics.RecordOrder(string(result.Status))
	c.publish(event.Event{
		Type:       event.TypeOrderFilled,
		Strategy:   signal.Strategy,
		Action:     signal.Action,
		Qty:        result.ExecutedQty,
		Price:      result.AvgPrice,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	})

	c.deps.Logger.Info("order executed",
		zap.String("symbol", c.cfg.Symbol),
		zap.String("order_id", result.OrderID),
		zap.String("status", string(result.Status)),
		zap.Float64("qty", result.ExecutedQty),
		zap.Float64("price", result.AvgPrice))

	return "traded", nil
}

func (c *Controller) buildOrder(signal types.Signal, refPrice float64) types.ExecuteOrder {
	side := types.PurchaseTypeBuy
	if signal.Action == types.SignalActionSell {
		side = types.PurchaseTypeSell
	}

	order := types.ExecuteOrder{
		ID:           uuid.NewString(),
		Symbol:       c.cfg.Symbol,
		Side:         side,
		OrderType:    types.OrderTypeMarket,
		Reason:       types.Reason{Reason: types.OrderReasonStrategy, Message: firstReason(signal)},
		Price:        refPrice,
		StrategyName: signal.Strategy,
		Quantity:     signal.SuggestedQty,
		PositionType: types.PositionTypeLong,
	}

	if side == types.PurchaseTypeBuy {
		if signal.TakeProfitPct > 0 {
			order.TakeProfit = optional.Some(types.ExecuteOrderTakeProfitOrStopLoss{
				Symbol:    c.cfg.Symbol,
				Side:      types.PurchaseTypeSell,
				OrderType: types.OrderTypeLimit,
				Price:     refPrice * (1 + signal.TakeProfitPct),
				Quantity:  signal.SuggestedQty,
			})
		}

		if signal.StopLossPct > 0 {
			order.StopLoss = optional.Some(types.ExecuteOrderTakeProfitOrStopLoss{
				Symbol:    c.cfg.Symbol,
				Side:      types.PurchaseTypeSell,
				OrderType: types.OrderTypeMarket,
				Price:     refPrice * (1 - signal.StopLossPct),
				Quantity:  signal.SuggestedQty,
			})
		}
	}

	return order
}

// exitLevels extracts the attached stop-loss and take-profit trigger
// prices, zero when the order carries none.
func exitLevels(order types.ExecuteOrder) (stopLoss, takeProfit float64) {
	if order.StopLoss.IsSome() {
		stopLoss = order.StopLoss.Unwrap().Price
	}

	if order.TakeProfit.IsSome() {
		takeProfit = order.TakeProfit.Unwrap().Price
	}

	return stopLoss, takeProfit
}

// updateTrailing advances the trailing stop with the latest price. A
// crossing is published once and the stop cleared; acting on the exit is
// left to event consumers.
func (c *Controller) updateTrailing(price float64) {
	if c.trailing == nil {
		return
	}

	c.trailing.Update(price)

	if c.trailing.Triggered(price) {
		c.publish(event.Event{
			Type:     event.TypeStopTriggered,
			Price:    price,
			StopLoss: c.trailing.Stop(),
			Reason:   "TRAILING_STOP",
		})
		c.trailing = nil
	}
}

func cooldownElapsed(boxes []*session.Box, now time.Time) bool {
	for _, box := range boxes {
		if !box.CooldownElapsed(now) {
			return false
		}
	}

	return true
}

func maxSessionTrades(boxes []*session.Box) int {
	trades := 0
	for _, box := range boxes {
		if box.TradesThisSession > trades {
			trades = box.TradesThisSession
		}
	}

	return trades
}

func firstReason(signal types.Signal) string {
	if len(signal.ReasonTags) > 0 {
		return signal.ReasonTags[0]
	}

	return string(signal.Action)
}

func (c *Controller) checkFilter(ctx context.Context, signal types.Signal) filter.Result {
	direction := filter.DirectionLong
	if signal.Action == types.SignalActionSell {
		direction = filter.DirectionShort
	}

	return c.deps.Filter.CheckConditions(ctx, c.cfg.Symbol, direction)
}

// resolvePending settles an ambiguous order from a previous cycle before
// any new trading happens.
func (c *Controller) resolvePending(ctx context.Context) error {
	result, err := c.deps.Executor.Reconcile(ctx, c.pending.symbol, c.pending.clientOrderID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeDataNotFound) {
			// Never reached the exchange
			c.pending = nil

			return nil
		}

		return err
	}

	if result.Status == types.OrderStatusFilled {
		c.stateMu.Lock()
		c.state.recordFill(c.pending.side, result.ExecutedQty, result.AvgPrice)
		c.stateMu.Unlock()

		c.deps.Metrics.RecordOrder(string(result.Status))
		c.publish(event.Event{
			Type:   event.TypeOrderFilled,
			Qty:    result.ExecutedQty,
			Price:  result.AvgPrice,
			Detail: "reconciled from previous cycle",
		})
	}

	if result.Status != types.OrderStatusPending && result.Status != types.OrderStatusUnknown {
		c.pending = nil
	}

	return nil
}

func (c *Controller) abort(err error, detail string) error {
	c.publish(event.Event{Type: event.TypeCycleAborted, Detail: detail})
	c.deps.Logger.Warn("cycle aborted",
		zap.String("symbol", c.cfg.Symbol),
		zap.String("detail", detail),
		zap.Error(err))

	return err
}

func (c *Controller) publish(e event.Event) {
	e.Time = c.now()
	e.UserID = c.cfg.UserID

	if e.Symbol == "" {
		e.Symbol = c.cfg.Symbol
	}

	c.deps.Sink.Publish(e)
}
