package exchange

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/internal/utils"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

const (
	// BinanceDecimalPrecision is a default decimal precision used as a fallback.
	// 8 decimals allows for satoshi-level precision (0.00000001 BTC) for BTC-like assets.
	// Production systems should use symbol-specific precision from Binance exchange info (e.g. LOT_SIZE, PRICE_FILTER).
	BinanceDecimalPrecision = 8

	// DefaultQuoteAsset is the quote currency balances are reported in
	DefaultQuoteAsset = "USDT"
)

// Service interfaces for mocking the Binance API

// KlinesService interface for fetching candle history.
type KlinesService interface {
	Symbol(symbol string) KlinesService
	Interval(interval string) KlinesService
	Limit(limit int) KlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// ListPricesService interface for fetching ticker prices.
type ListPricesService interface {
	Symbol(symbol string) ListPricesService
	Do(ctx context.Context) ([]*binance.SymbolPrice, error)
}

// GetAccountService interface for getting account info.
type GetAccountService interface {
	Do(ctx context.Context) (*binance.Account, error)
}

// CreateOrderService interface for creating orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	Price(price string) CreateOrderService
	TimeInForce(tif binance.TimeInForceType) CreateOrderService
	NewClientOrderID(id string) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// GetOrderService interface for querying a single order.
type GetOrderService interface {
	Symbol(symbol string) GetOrderService
	OrigClientOrderID(id string) GetOrderService
	Do(ctx context.Context) (*binance.Order, error)
}

// BinanceClient interface abstracts the Binance client for testing.
type BinanceClient interface {
	NewKlinesService() KlinesService
	NewListPricesService() ListPricesService
	NewGetAccountService() GetAccountService
	NewCreateOrderService() CreateOrderService
	NewGetOrderService() GetOrderService
}

// realBinanceClient wraps the actual binance.Client.
type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewKlinesService() KlinesService {
	return &realKlinesService{service: r.client.NewKlinesService()}
}

func (r *realBinanceClient) NewListPricesService() ListPricesService {
	return &realListPricesService{service: r.client.NewListPricesService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewGetOrderService() GetOrderService {
	return &realGetOrderService{service: r.client.NewGetOrderService()}
}

// Real service wrappers

type realKlinesService struct {
	service *binance.KlinesService
}

func (s *realKlinesService) Symbol(symbol string) KlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realKlinesService) Interval(interval string) KlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *realKlinesService) Limit(limit int) KlinesService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type realListPricesService struct {
	service *binance.ListPricesService
}

func (s *realListPricesService) Symbol(symbol string) ListPricesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realListPricesService) Do(ctx context.Context) ([]*binance.SymbolPrice, error) {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *binance.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*binance.Account, error) {
	return s.service.Do(ctx)
}

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Price(price string) CreateOrderService {
	s.service = s.service.Price(price)

	return s
}

func (s *realCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	s.service = s.service.TimeInForce(tif)

	return s
}

func (s *realCreateOrderService) NewClientOrderID(id string) CreateOrderService {
	s.service = s.service.NewClientOrderID(id)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realGetOrderService struct {
	service *binance.GetOrderService
}

func (s *realGetOrderService) Symbol(symbol string) GetOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realGetOrderService) OrigClientOrderID(id string) GetOrderService {
	s.service = s.service.OrigClientOrderID(id)

	return s
}

func (s *realGetOrderService) Do(ctx context.Context) (*binance.Order, error) {
	return s.service.Do(ctx)
}

// BinanceConfig holds the Binance connection settings.
type BinanceConfig struct {
	APIKey    string `yaml:"api_key"`
	SecretKey string `yaml:"secret_key"`
	// BaseURL overrides the endpoint; takes precedence over UseTestnet
	BaseURL    string `yaml:"base_url"`
	UseTestnet bool   `yaml:"use_testnet"`
	QuoteAsset string `yaml:"quote_asset"`
}

// BinanceExchange implements Exchange against the Binance spot API. It is
// stateless, every call hits the API.
type BinanceExchange struct {
	client           BinanceClient
	quoteAsset       string
	decimalPrecision int
}

var _ Exchange = (*BinanceExchange)(nil)

// NewBinanceExchange creates an exchange backed by the real Binance client.
func NewBinanceExchange(config BinanceConfig) *BinanceExchange {
	if config.UseTestnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(config.APIKey, config.SecretKey)
	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	quote := config.QuoteAsset
	if quote == "" {
		quote = DefaultQuoteAsset
	}

	return &BinanceExchange{
		client:           &realBinanceClient{client: client},
		quoteAsset:       quote,
		decimalPrecision: BinanceDecimalPrecision,
	}
}

// newBinanceExchangeWithClient creates an exchange with a custom client.
// This is used for testing with mock clients.
func newBinanceExchangeWithClient(client BinanceClient) *BinanceExchange {
	return &BinanceExchange{
		client:           client,
		quoteAsset:       DefaultQuoteAsset,
		decimalPrecision: BinanceDecimalPrecision,
	}
}

// GetKlines fetches candle history for one interval.
func (b *BinanceExchange) GetKlines(ctx context.Context, symbol string, interval types.Interval, limit int) (types.Series, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(string(interval)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeKlineFetchFailed, err, "failed to fetch %s klines for %s", interval, symbol)
	}

	series := make(types.Series, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		series = append(series, types.Candle{
			Time:   time.UnixMilli(k.OpenTime),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return series, nil
}

// GetTickerPrice fetches the latest price for a symbol.
func (b *BinanceExchange) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeTickerFetchFailed, err, "failed to fetch ticker for %s", symbol)
	}

	if len(prices) == 0 {
		return 0, errors.Newf(errors.ErrCodeDataNotFound, "no ticker price for %s", symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeTickerFetchFailed, err, "unparsable ticker price %q for %s", prices[0].Price, symbol)
	}

	return price, nil
}

// GetSnapshot fetches the account state. The quote asset balance becomes
// the available/frozen balances; every other non-zero asset is reported as
// a held quantity.
func (b *BinanceExchange) GetSnapshot(ctx context.Context) (types.AccountSnapshot, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return types.AccountSnapshot{}, errors.Wrap(errors.ErrCodeAccountFetchFailed, "failed to fetch account from Binance", err)
	}

	snapshot := types.AccountSnapshot{
		Assets:      make(map[string]float64),
		RetrievedAt: time.Now(),
	}

	for _, balance := range account.Balances {
		free, _ := strconv.ParseFloat(balance.Free, 64)
		locked, _ := strconv.ParseFloat(balance.Locked, 64)

		if balance.Asset == b.quoteAsset {
			snapshot.AvailableBalance = free
			snapshot.FrozenBalance = locked
			snapshot.TotalBalance = free + locked

			continue
		}

		if free > 0 {
			snapshot.Assets[balance.Asset] = free
		}

		if total := free + locked; total > 0 {
			snapshot.OpenPositions = append(snapshot.OpenPositions, types.Position{
				Symbol: balance.Asset,
				Size:   total,
				Side:   types.PositionTypeLong,
			})
		}
	}

	return snapshot, nil
}

// GetPositions returns the long positions derived from account balances.
// Spot balances carry no entry price, so only symbol and size are filled.
func (b *BinanceExchange) GetPositions(ctx context.Context) ([]types.Position, error) {
	snapshot, err := b.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return snapshot.OpenPositions, nil
}

// PlaceOrder submits an order. When the submission outcome is unknowable
// (the context expired mid-flight) the result carries OrderStatusUnknown
// and the error code marks it for reconciliation.
func (b *BinanceExchange) PlaceOrder(ctx context.Context, order types.ExecuteOrder) (types.OrderResult, error) {
	var side binance.SideType

	switch order.Side {
	case types.PurchaseTypeBuy:
		side = binance.SideTypeBuy
	case types.PurchaseTypeSell:
		side = binance.SideTypeSell
	default:
		return types.OrderResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", order.Side)
	}

	var orderType binance.OrderType

	switch order.OrderType {
	case types.OrderTypeMarket:
		orderType = binance.OrderTypeMarket
	case types.OrderTypeLimit:
		orderType = binance.OrderTypeLimit
	default:
		return types.OrderResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order type: %s", order.OrderType)
	}

	if order.Quantity <= 0 {
		return types.OrderResult{}, errors.New(errors.ErrCodeInvalidParameter, "order quantity must be greater than zero")
	}

	roundedQuantity := utils.RoundToDecimalPrecision(order.Quantity, b.decimalPrecision)
	if roundedQuantity <= 0 {
		return types.OrderResult{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"order quantity %.8f is too small after rounding to %d decimal places",
			order.Quantity, b.decimalPrecision)
	}

	orderService := b.client.NewCreateOrderService().
		Symbol(order.Symbol).
		Side(side).
		Type(orderType).
		Quantity(strconv.FormatFloat(roundedQuantity, 'f', b.decimalPrecision, 64)).
		NewClientOrderID(order.ID)

	if order.OrderType == types.OrderTypeLimit {
		orderService = orderService.
			Price(strconv.FormatFloat(order.Price, 'f', -1, 64)).
			TimeInForce(binance.TimeInForceTypeGTC)
	}

	response, err := orderService.Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// The request may have reached the exchange; the caller must
			// reconcile by client order ID before retrying
			result := types.OrderResult{
				ClientOrderID: order.ID,
				Symbol:        order.Symbol,
				Status:        types.OrderStatusUnknown,
			}

			return result, errors.Wrap(errors.ErrCodeOrderAmbiguous, "order submission outcome unknown", err)
		}

		return types.OrderResult{}, errors.Wrap(errors.ErrCodeOrderFailed, "failed to place order on Binance", err)
	}

	return orderResultFromCreateResponse(response), nil
}

// GetOrderStatus queries an order by the engine-side client order ID.
func (b *BinanceExchange) GetOrderStatus(ctx context.Context, symbol string, clientOrderID string) (types.OrderResult, error) {
	order, err := b.client.NewGetOrderService().
		Symbol(symbol).
		OrigClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		if isBinanceOrderNotFound(err) {
			return types.OrderResult{}, errors.Wrapf(errors.ErrCodeDataNotFound, err, "order %s not found", clientOrderID)
		}

		return types.OrderResult{}, errors.Wrapf(errors.ErrCodeOrderFailed, err, "failed to query order %s", clientOrderID)
	}

	return orderResultFromOrder(order), nil
}

// Helper functions

// binanceOrderNotExistCode is the API error code Binance returns when an
// order lookup misses.
const binanceOrderNotExistCode = -2013

func isBinanceOrderNotFound(err error) bool {
	var apiErr *common.APIError

	return stderrors.As(err, &apiErr) && apiErr.Code == binanceOrderNotExistCode
}

// mapBinanceOrderStatus maps Binance order status to our OrderStatus type.
func mapBinanceOrderStatus(status binance.OrderStatusType) types.OrderStatus {
	switch status {
	case binance.OrderStatusTypeNew, binance.OrderStatusTypePartiallyFilled:
		return types.OrderStatusPending
	case binance.OrderStatusTypeFilled:
		return types.OrderStatusFilled
	case binance.OrderStatusTypeCanceled:
		return types.OrderStatusCancelled
	case binance.OrderStatusTypeRejected:
		return types.OrderStatusRejected
	case binance.OrderStatusTypeExpired, binance.OrderStatusTypePendingCancel:
		return types.OrderStatusFailed
	default:
		return types.OrderStatusFailed
	}
}

func orderResultFromCreateResponse(response *binance.CreateOrderResponse) types.OrderResult {
	executedQty, _ := strconv.ParseFloat(response.ExecutedQuantity, 64)
	quoteQty, _ := strconv.ParseFloat(response.CummulativeQuoteQuantity, 64)

	return types.OrderResult{
		OrderID:       strconv.FormatInt(response.OrderID, 10),
		ClientOrderID: response.ClientOrderID,
		Symbol:        response.Symbol,
		Status:        mapBinanceOrderStatus(response.Status),
		ExecutedQty:   executedQty,
		AvgPrice:      averagePrice(quoteQty, executedQty, response.Price),
		SubmittedAt:   time.UnixMilli(response.TransactTime),
	}
}

func orderResultFromOrder(order *binance.Order) types.OrderResult {
	executedQty, _ := strconv.ParseFloat(order.ExecutedQuantity, 64)
	quoteQty, _ := strconv.ParseFloat(order.CummulativeQuoteQuantity, 64)

	return types.OrderResult{
		OrderID:       strconv.FormatInt(order.OrderID, 10),
		ClientOrderID: order.ClientOrderID,
		Symbol:        order.Symbol,
		Status:        mapBinanceOrderStatus(order.Status),
		ExecutedQty:   executedQty,
		AvgPrice:      averagePrice(quoteQty, executedQty, order.Price),
		SubmittedAt:   time.UnixMilli(order.Time),
	}
}

// averagePrice derives the fill price from the cumulative quote quantity,
// falling back to the order price for unfilled orders.
func averagePrice(quoteQty, executedQty float64, orderPrice string) float64 {
	if executedQty > 0 && quoteQty > 0 {
		return quoteQty / executedQty
	}

	price, _ := strconv.ParseFloat(orderPrice, 64)

	return price
}
