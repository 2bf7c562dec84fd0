package exchange

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/logger"
	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// ExecutorConfig bounds the executor's retry behavior.
type ExecutorConfig struct {
	MaxAttempts int `yaml:"max_attempts" validate:"gte=1"`
	// AttemptTimeout bounds one submission round trip
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	BackoffMin     time.Duration `yaml:"backoff_min"`
	BackoffMax     time.Duration `yaml:"backoff_max"`
}

// DefaultExecutorConfig returns the stock retry parameters.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts:    3,
		AttemptTimeout: 10 * time.Second,
		BackoffMin:     500 * time.Millisecond,
		BackoffMax:     5 * time.Second,
	}
}

func (c ExecutorConfig) withDefaults() ExecutorConfig {
	defaults := DefaultExecutorConfig()

	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaults.MaxAttempts
	}

	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = defaults.AttemptTimeout
	}

	if c.BackoffMin <= 0 {
		c.BackoffMin = defaults.BackoffMin
	}

	if c.BackoffMax <= 0 {
		c.BackoffMax = defaults.BackoffMax
	}

	return c
}

// Executor submits orders with bounded retries. An ambiguous submission is
// never blindly retried: the order is first reconciled by client order ID
// so a duplicate fill cannot occur.
type Executor struct {
	orders OrderService
	config ExecutorConfig
	logger *logger.Logger
}

// NewExecutor creates an executor over the given order service.
func NewExecutor(orders OrderService, config ExecutorConfig, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Executor{
		orders: orders,
		config: config.withDefaults(),
		logger: log,
	}
}

// Execute validates and submits the order, retrying transient failures.
func (e *Executor) Execute(ctx context.Context, order types.ExecuteOrder) (types.OrderResult, error) {
	if err := order.Validate(); err != nil {
		return types.OrderResult{}, err
	}

	retry := &backoff.Backoff{
		Min:    e.config.BackoffMin,
		Max:    e.config.BackoffMax,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error

	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		result, err := e.attempt(ctx, order)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if errors.HasCode(err, errors.ErrCodeOrderAmbiguous) {
			reconciled, reconcileErr := e.Reconcile(ctx, order.Symbol, order.ID)
			if reconcileErr == nil {
				return reconciled, nil
			}

			if errors.HasCode(reconcileErr, errors.ErrCodeDataNotFound) {
				// The order never reached the exchange; safe to retry
				lastErr = err
			} else {
				return types.OrderResult{
					ClientOrderID: order.ID,
					Symbol:        order.Symbol,
					Status:        types.OrderStatusUnknown,
				}, errors.Wrapf(errors.ErrCodeOrderAmbiguous, reconcileErr, "order %s could not be reconciled", order.ID)
			}
		}

		if ctx.Err() != nil {
			break
		}

		if attempt < e.config.MaxAttempts {
			wait := retry.Duration()
			e.logger.Warn("order submission failed, retrying",
				zap.String("order_id", order.ID),
				zap.String("symbol", order.Symbol),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(err))

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return types.OrderResult{}, errors.Wrap(errors.ErrCodeRetriesExhausted, "order submission canceled", ctx.Err())
			}
		}
	}

	return types.OrderResult{}, errors.Wrapf(errors.ErrCodeRetriesExhausted, lastErr,
		"order %s failed after %d attempts", order.ID, e.config.MaxAttempts)
}

func (e *Executor) attempt(ctx context.Context, order types.ExecuteOrder) (types.OrderResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.config.AttemptTimeout)
	defer cancel()

	return e.orders.PlaceOrder(attemptCtx, order)
}

// Reconcile queries the exchange for an order's actual state by client
// order ID.
func (e *Executor) Reconcile(ctx context.Context, symbol, clientOrderID string) (types.OrderResult, error) {
	return e.orders.GetOrderStatus(ctx, symbol, clientOrderID)
}
