// Package filter implements the RSI multi-timeframe entry filter: an
// independent gate that checks the 5-minute and 1-hour RSI against
// direction-specific thresholds before an entry is allowed.
package filter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/indicator"
	"github.com/aurora-lab/aurora-trading/internal/logger"
	"github.com/aurora-lab/aurora-trading/internal/types"
)

// Direction is the side of the entry the filter gates.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// KlineSource supplies the candle history the filter computes RSI over.
type KlineSource interface {
	GetKlines(ctx context.Context, symbol string, interval types.Interval, limit int) (types.Series, error)
}

// Config holds the filter thresholds. Long entries want both timeframes
// depressed, short entries want them elevated; the 1-hour comparison is
// inclusive on both sides.
type Config struct {
	Enabled bool `yaml:"enabled"`
	// Reduced relaxes the filter to the 5-minute condition only
	Reduced bool `yaml:"reduced"`

	Long5mThreshold  float64 `yaml:"long_5m_threshold" validate:"gte=0,lte=100"`
	Long1hThreshold  float64 `yaml:"long_1h_threshold" validate:"gte=0,lte=100"`
	Short5mThreshold float64 `yaml:"short_5m_threshold" validate:"gte=0,lte=100"`
	Short1hThreshold float64 `yaml:"short_1h_threshold" validate:"gte=0,lte=100"`

	RSIPeriod  int `yaml:"rsi_period" validate:"gte=0"`
	KlineLimit int `yaml:"kline_limit" validate:"gte=0"`
}

// DefaultConfig mirrors the stock thresholds: 5m 30/70 with a neutral 50
// gate on the hourly.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		Long5mThreshold:  30,
		Long1hThreshold:  50,
		Short5mThreshold: 70,
		Short1hThreshold: 50,
		RSIPeriod:        indicator.DefaultRSIPeriod,
		KlineLimit:       100,
	}
}

// Result is the outcome of one filter check. It is a value, never an
// error: missing data simply does not pass.
type Result struct {
	Passed bool
	RSI5m  float64
	RSI1h  float64
	// HasData reports whether both required timeframes could be computed
	HasData bool
	// Detail is a human-readable reason consumed by logging and the
	// event sink
	Detail string
}

// RSIFilter checks entry conditions across two timeframes.
type RSIFilter struct {
	config Config
	source KlineSource
	logger *logger.Logger
}

// NewRSIFilter creates a filter backed by the given kline source.
func NewRSIFilter(config Config, source KlineSource, log *logger.Logger) *RSIFilter {
	if config.RSIPeriod <= 0 {
		config.RSIPeriod = indicator.DefaultRSIPeriod
	}

	if config.KlineLimit <= 0 {
		config.KlineLimit = 100
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &RSIFilter{
		config: config,
		source: source,
		logger: log,
	}
}

// CheckConditions evaluates the filter for one symbol and direction. A
// disabled filter passes everything. Data problems never raise; they
// produce a failed result with a detail string.
func (f *RSIFilter) CheckConditions(ctx context.Context, symbol string, direction Direction) Result {
	if !f.config.Enabled {
		return Result{Passed: true, Detail: "filter disabled"}
	}

	rsi5m, ok := f.timeframeRSI(ctx, symbol, types.Interval5m)
	if !ok {
		return Result{Detail: "no 5m data"}
	}

	if f.config.Reduced {
		result := Result{RSI5m: rsi5m, HasData: true}
		result.Passed = f.fiveMinutePasses(rsi5m, direction)
		result.Detail = f.describe(result, direction)

		return result
	}

	rsi1h, ok := f.timeframeRSI(ctx, symbol, types.Interval1h)
	if !ok {
		return Result{RSI5m: rsi5m, Detail: "no 1h data"}
	}

	result := Result{RSI5m: rsi5m, RSI1h: rsi1h, HasData: true}

	switch direction {
	case DirectionLong:
		result.Passed = rsi5m < f.config.Long5mThreshold && rsi1h <= f.config.Long1hThreshold
	case DirectionShort:
		result.Passed = rsi5m > f.config.Short5mThreshold && rsi1h >= f.config.Short1hThreshold
	}

	result.Detail = f.describe(result, direction)

	return result
}

func (f *RSIFilter) fiveMinutePasses(rsi5m float64, direction Direction) bool {
	switch direction {
	case DirectionLong:
		return rsi5m < f.config.Long5mThreshold
	case DirectionShort:
		return rsi5m > f.config.Short5mThreshold
	default:
		return false
	}
}

// timeframeRSI fetches candles and computes the RSI for one interval.
// Returns false when the data cannot support a real reading.
func (f *RSIFilter) timeframeRSI(ctx context.Context, symbol string, interval types.Interval) (float64, bool) {
	series, err := f.source.GetKlines(ctx, symbol, interval, f.config.KlineLimit)
	if err != nil {
		f.logger.Warn("rsi filter kline fetch failed",
			zap.String("symbol", symbol),
			zap.String("interval", string(interval)),
			zap.Error(err))

		return 0, false
	}

	closes := series.Closes()
	if len(closes) < f.config.RSIPeriod+1 {
		return 0, false
	}

	return indicator.RSI(closes, f.config.RSIPeriod), true
}

func (f *RSIFilter) describe(result Result, direction Direction) string {
	state := "blocked"
	if result.Passed {
		state = "passed"
	}

	if f.config.Reduced {
		return fmt.Sprintf("%s %s (reduced): rsi_5m=%.2f", direction, state, result.RSI5m)
	}

	return fmt.Sprintf("%s %s: rsi_5m=%.2f rsi_1h=%.2f", direction, state, result.RSI5m, result.RSI1h)
}
