// Package event carries trade lifecycle notifications from the controller
// to history and notification consumers. Publishing never blocks the
// trading cycle.
package event

import (
	"time"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// Type identifies the kind of event.
type Type string

const (
	TypeSignal         Type = "SIGNAL"
	TypeSignalRejected Type = "SIGNAL_REJECTED"
	TypeSignalFiltered Type = "SIGNAL_FILTERED"
	TypeOrderSubmitted Type = "ORDER_SUBMITTED"
	TypeOrderFilled    Type = "ORDER_FILLED"
	TypeOrderFailed    Type = "ORDER_FAILED"
	TypeCycleAborted   Type = "CYCLE_ABORTED"
	TypeEngineEnabled  Type = "ENGINE_ENABLED"
	TypeEngineDisabled Type = "ENGINE_DISABLED"
	TypeForcedDisable  Type = "ENGINE_FORCE_DISABLED"
	TypeSessionReset   Type = "SESSION_RESET"
	// TypeStopTriggered reports that the trailing stop level for the open
	// position has been crossed; position management collaborators act on it
	TypeStopTriggered Type = "STOP_TRIGGERED"
)

// Event is one trade lifecycle notification.
type Event struct {
	Time     time.Time
	Type     Type
	UserID   string
	Symbol   string
	Strategy string
	Action   types.SignalAction
	Qty      float64
	Price    float64
	// StopLoss and TakeProfit are the exit levels attached to an order,
	// zero when the signal carried none
	StopLoss   float64
	TakeProfit float64
	// Reason is a stable identifier such as a gate rejection reason
	Reason string
	// Detail is free-form human context
	Detail string
}

// Sink consumes events. Publish must not block; slow consumers drop rather
// than stall the cycle.
type Sink interface {
	Publish(event Event)
}
