package exchange

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/internal/utils"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// PaperExchange is an in-memory Exchange for paper trading and tests. All
// orders fill immediately at the configured ticker price.
type PaperExchange struct {
	mu sync.Mutex

	quoteBalance float64
	assets       map[string]float64
	series       map[string]map[types.Interval]types.Series
	prices       map[string]float64
	// baseAsset maps a symbol to the asset credited on a buy
	baseAsset map[string]string
	orders    map[string]types.OrderResult
	nextID    int64
	feeRate   float64
}

var _ Exchange = (*PaperExchange)(nil)

// NewPaperExchange creates a paper exchange seeded with a quote balance.
func NewPaperExchange(quoteBalance float64) *PaperExchange {
	return &PaperExchange{
		quoteBalance: quoteBalance,
		assets:       make(map[string]float64),
		series:       make(map[string]map[types.Interval]types.Series),
		prices:       make(map[string]float64),
		baseAsset:    make(map[string]string),
		orders:       make(map[string]types.OrderResult),
		feeRate:      0.001,
	}
}

// SetSeries installs candle history for a symbol and interval.
func (p *PaperExchange) SetSeries(symbol string, interval types.Interval, series types.Series) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.series[symbol] == nil {
		p.series[symbol] = make(map[types.Interval]types.Series)
	}

	p.series[symbol][interval] = series
}

// SetPrice installs the ticker price and base asset for a symbol.
func (p *PaperExchange) SetPrice(symbol, baseAsset string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prices[symbol] = price
	p.baseAsset[symbol] = baseAsset
}

// SetAsset sets a held base asset quantity.
func (p *PaperExchange) SetAsset(asset string, qty float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.assets[asset] = qty
}

func (p *PaperExchange) GetKlines(_ context.Context, symbol string, interval types.Interval, limit int) (types.Series, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	series := p.series[symbol][interval]
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}

	out := make(types.Series, len(series))
	copy(out, series)

	return out, nil
}

func (p *PaperExchange) GetTickerPrice(_ context.Context, symbol string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.prices[symbol]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeDataNotFound, "no ticker price for %s", symbol)
	}

	return price, nil
}

func (p *PaperExchange) GetSnapshot(_ context.Context) (types.AccountSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	assets := make(map[string]float64, len(p.assets))
	for asset, qty := range p.assets {
		assets[asset] = qty
	}

	return types.AccountSnapshot{
		TotalBalance:     p.quoteBalance,
		AvailableBalance: p.quoteBalance,
		Assets:           assets,
		OpenPositions:    p.positionsLocked(),
		RetrievedAt:      time.Now(),
	}, nil
}

func (p *PaperExchange) GetPositions(_ context.Context) ([]types.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.positionsLocked(), nil
}

// positionsLocked derives long positions from the held assets. Callers must
// hold the mutex.
func (p *PaperExchange) positionsLocked() []types.Position {
	positions := make([]types.Position, 0, len(p.assets))

	for asset, qty := range p.assets {
		if qty <= 0 {
			continue
		}

		position := types.Position{
			Symbol: asset,
			Size:   qty,
			Side:   types.PositionTypeLong,
		}

		for symbol, base := range p.baseAsset {
			if base == asset {
				position.MarkPrice = p.prices[symbol]

				break
			}
		}

		positions = append(positions, position)
	}

	return positions
}

func (p *PaperExchange) PlaceOrder(_ context.Context, order types.ExecuteOrder) (types.OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.prices[order.Symbol]
	if !ok || price <= 0 {
		return types.OrderResult{}, errors.Newf(errors.ErrCodeMarketDataMissing, "no price for %s", order.Symbol)
	}

	if order.OrderType == types.OrderTypeLimit && order.Price > 0 {
		price = order.Price
	}

	cost := order.Quantity * price
	fee := cost * p.feeRate
	asset := p.baseAsset[order.Symbol]

	switch order.Side {
	case types.PurchaseTypeBuy:
		if order.Quantity > utils.CalculateMaxQuantity(p.quoteBalance, price, p.feeRate) {
			return types.OrderResult{}, errors.Newf(errors.ErrCodeOrderFailed,
				"insufficient balance: need %.2f, have %.2f", cost+fee, p.quoteBalance)
		}

		p.quoteBalance -= cost + fee
		p.assets[asset] += order.Quantity
	case types.PurchaseTypeSell:
		if p.assets[asset] < order.Quantity {
			return types.OrderResult{}, errors.Newf(errors.ErrCodeOrderFailed,
				"insufficient %s: need %.8f, have %.8f", asset, order.Quantity, p.assets[asset])
		}

		p.assets[asset] -= order.Quantity
		p.quoteBalance += cost - fee
	default:
		return types.OrderResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", order.Side)
	}

	p.nextID++
	result := types.OrderResult{
		OrderID:       formatPaperOrderID(p.nextID),
		ClientOrderID: order.ID,
		Symbol:        order.Symbol,
		Status:        types.OrderStatusFilled,
		ExecutedQty:   order.Quantity,
		AvgPrice:      price,
		SubmittedAt:   time.Now(),
	}
	p.orders[order.ID] = result

	return result, nil
}

func (p *PaperExchange) GetOrderStatus(_ context.Context, _ string, clientOrderID string) (types.OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result, ok := p.orders[clientOrderID]
	if !ok {
		return types.OrderResult{}, errors.Newf(errors.ErrCodeDataNotFound, "order not found: %s", clientOrderID)
	}

	return result, nil
}

func formatPaperOrderID(n int64) string {
	return "paper-" + strconv.FormatInt(n, 10)
}
