// Package exchange defines the market data, account, and order collaborator
// interfaces the engine depends on, with a Binance implementation and an
// in-memory paper implementation.
package exchange

import (
	"context"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// MarketDataSource supplies candle history and ticker prices.
type MarketDataSource interface {
	GetKlines(ctx context.Context, symbol string, interval types.Interval, limit int) (types.Series, error)
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
}

// AccountService supplies account snapshots. Implementations must fetch
// fresh state on every call; the engine never reuses a snapshot across
// cycles.
type AccountService interface {
	GetSnapshot(ctx context.Context) (types.AccountSnapshot, error)
	GetPositions(ctx context.Context) ([]types.Position, error)
}

// OrderService submits orders and answers status queries for
// reconciliation.
type OrderService interface {
	PlaceOrder(ctx context.Context, order types.ExecuteOrder) (types.OrderResult, error)
	// GetOrderStatus looks an order up by the engine-side client order ID
	GetOrderStatus(ctx context.Context, symbol string, clientOrderID string) (types.OrderResult, error)
}

// Exchange bundles the three collaborator roles.
type Exchange interface {
	MarketDataSource
	AccountService
	OrderService
}
