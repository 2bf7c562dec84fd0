package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

type PurchaseType string

type OrderType string

type OrderStatus string

type PositionType string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusFailed    OrderStatus = "FAILED"
	// OrderStatusUnknown marks an order whose submission result was lost.
	// It must be reconciled against the exchange before the next cycle.
	OrderStatusUnknown OrderStatus = "UNKNOWN"
)

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

const (
	OrderReasonStopLoss   string = "stop_loss"
	OrderReasonTakeProfit string = "take_profit"
	OrderReasonStrategy   string = "strategy"
)

type Reason struct {
	Reason  string `yaml:"reason" json:"reason" validate:"required"`
	Message string `yaml:"message" json:"message" validate:"required"`
}

type ExecuteOrderTakeProfitOrStopLoss struct {
	Symbol    string       `yaml:"symbol" json:"symbol" validate:"required"`
	Side      PurchaseType `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	OrderType OrderType    `yaml:"order_type" json:"order_type" validate:"required,oneof=MARKET LIMIT"`
	// Price is the exit trigger level derived from the signal's
	// stop-loss/take-profit percentages
	Price    float64 `yaml:"price" json:"price" validate:"required,gt=0"`
	Quantity float64 `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
}

// ExecuteOrder is a risk-approved order request handed to the execution
// adapter. It is the only shape that may reach an exchange client.
type ExecuteOrder struct {
	ID           string       `yaml:"id" json:"id" validate:"required,uuid"`
	Symbol       string       `yaml:"symbol" json:"symbol" validate:"required"`
	Side         PurchaseType `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	OrderType    OrderType    `yaml:"order_type" json:"order_type" validate:"required,oneof=MARKET LIMIT"`
	Reason       Reason       `yaml:"reason" json:"reason" validate:"required"`
	Price        float64      `yaml:"price" json:"price" validate:"required,gt=0"`
	StrategyName string       `yaml:"strategy_name" json:"strategy_name" validate:"required"`
	Quantity     float64      `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	PositionType PositionType `yaml:"position_type" json:"position_type" validate:"required,oneof=LONG SHORT"`
	// TakeProfit is the take profit order. Can be nil if not set.
	TakeProfit optional.Option[ExecuteOrderTakeProfitOrStopLoss] `yaml:"take_profit" json:"take_profit"`
	// StopLoss is the stop loss order. Can be nil if not set.
	StopLoss optional.Option[ExecuteOrderTakeProfitOrStopLoss] `yaml:"stop_loss" json:"stop_loss"`
}

// OrderResult is the interpreted outcome of an order submission.
type OrderResult struct {
	OrderID string `yaml:"order_id" json:"order_id"`
	// ClientOrderID is the engine-side order ID used for reconciliation
	ClientOrderID string      `yaml:"client_order_id" json:"client_order_id"`
	Symbol        string      `yaml:"symbol" json:"symbol"`
	Status        OrderStatus `yaml:"status" json:"status"`
	ExecutedQty   float64     `yaml:"executed_qty" json:"executed_qty"`
	AvgPrice      float64     `yaml:"avg_price" json:"avg_price"`
	SubmittedAt   time.Time   `yaml:"submitted_at" json:"submitted_at"`
}

// Validate validates the ExecuteOrder struct.
func (eo *ExecuteOrder) Validate() error {
	validate := validator.New()

	err := validate.Struct(eo)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidExecuteOrder, "invalid execute order", err)
	}

	// Validate take profit if present
	if eo.TakeProfit.IsSome() {
		tp := eo.TakeProfit.Unwrap()
		if err := validate.Struct(tp); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTakeProfit, "invalid take profit", err)
		}
	}

	// Validate stop loss if present
	if eo.StopLoss.IsSome() {
		sl := eo.StopLoss.Unwrap()
		if err := validate.Struct(sl); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStopLoss, "invalid stop loss", err)
		}
	}

	return nil
}
