// Package strategy implements the signal-producing strategy variants. A
// strategy is a pure evaluation over one candle series: identical input
// always yields an identical signal, and bad data yields HOLD, never an
// error.
package strategy

import (
	"github.com/aurora-lab/aurora-trading/internal/indicator"
	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// ID enumerates the closed set of strategy variants. Unknown names are a
// construction-time error, not a runtime lookup miss.
type ID string

const (
	IDRSIOnly      ID = "rsi_only"
	IDVolumeFilter ID = "volume_filter"
	IDAdvanced     ID = "advanced"
	IDGrid         ID = "grid"
	IDDCA          ID = "dca"
)

// ParseID validates a strategy name against the closed set.
func ParseID(name string) (ID, error) {
	switch ID(name) {
	case IDRSIOnly, IDVolumeFilter, IDAdvanced, IDGrid, IDDCA:
		return ID(name), nil
	default:
		return "", errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy: %q", name)
	}
}

// Input is one evaluation's worth of market context. The series is owned by
// the caller and never mutated.
type Input struct {
	Symbol string
	Series types.Series
	// Balance is the available quote balance used for position sizing
	Balance float64
	// RefPrice is the current ticker price; falls back to the last close
	// when zero
	RefPrice float64
}

// Strategy is the shared evaluation capability of all variants.
type Strategy interface {
	ID() ID
	Evaluate(input Input) types.Signal
}

// Config carries every strategy parameter. Zero values are replaced with
// defaults at construction.
type Config struct {
	RSIPeriod     int     `yaml:"rsi_period" validate:"gte=0"`
	RSIOversold   float64 `yaml:"rsi_oversold" validate:"gte=0,lte=100"`
	RSIOverbought float64 `yaml:"rsi_overbought" validate:"gte=0,lte=100"`

	MACDFastPeriod   int `yaml:"macd_fast_period" validate:"gte=0"`
	MACDSlowPeriod   int `yaml:"macd_slow_period" validate:"gte=0"`
	MACDSignalPeriod int `yaml:"macd_signal_period" validate:"gte=0"`

	VolumeEMAPeriod  int     `yaml:"volume_ema_period" validate:"gte=0"`
	VolumeSurgeRatio float64 `yaml:"volume_surge_ratio" validate:"gte=0"`

	OBVLookback int `yaml:"obv_lookback" validate:"gte=0"`

	ATRPeriod         int     `yaml:"atr_period" validate:"gte=0"`
	ATRStopMultiplier float64 `yaml:"atr_stop_multiplier" validate:"gte=0"`
	ATRTakeMultiplier float64 `yaml:"atr_take_multiplier" validate:"gte=0"`

	// StopLossPct and TakeProfitPct are the static floors used when no
	// volatility reading is available
	StopLossPct   float64 `yaml:"stop_loss_pct" validate:"gte=0,lt=1"`
	TakeProfitPct float64 `yaml:"take_profit_pct" validate:"gte=0,lt=1"`

	// PositionSizePct is the fraction of the available balance a single
	// entry proposes, before risk clamping
	PositionSizePct float64 `yaml:"position_size_pct" validate:"gte=0,lte=1"`

	GridSpacingPct   float64 `yaml:"grid_spacing_pct" validate:"gte=0,lt=1"`
	GridAnchorPeriod int     `yaml:"grid_anchor_period" validate:"gte=0"`

	// DCAQuoteAmount is the fixed quote amount bought per DCA evaluation
	DCAQuoteAmount float64 `yaml:"dca_quote_amount" validate:"gte=0"`
}

// DefaultConfig mirrors the bot's stock parameters.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:         indicator.DefaultRSIPeriod,
		RSIOversold:       indicator.DefaultRSIOversold,
		RSIOverbought:     indicator.DefaultRSIOverbought,
		MACDFastPeriod:    indicator.DefaultMACDFastPeriod,
		MACDSlowPeriod:    indicator.DefaultMACDSlowPeriod,
		MACDSignalPeriod:  indicator.DefaultMACDSignalPeriod,
		VolumeEMAPeriod:   20,
		VolumeSurgeRatio:  1.5,
		OBVLookback:       5,
		ATRPeriod:         indicator.DefaultATRPeriod,
		ATRStopMultiplier: 1.5,
		ATRTakeMultiplier: 2.5,
		StopLossPct:       0.015,
		TakeProfitPct:     0.025,
		PositionSizePct:   0.10,
		GridSpacingPct:    0.01,
		GridAnchorPeriod:  20,
		DCAQuoteAmount:    50,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()

	if c.RSIPeriod == 0 {
		c.RSIPeriod = defaults.RSIPeriod
	}

	if c.RSIOversold == 0 {
		c.RSIOversold = defaults.RSIOversold
	}

	if c.RSIOverbought == 0 {
		c.RSIOverbought = defaults.RSIOverbought
	}

	if c.MACDFastPeriod == 0 {
		c.MACDFastPeriod = defaults.MACDFastPeriod
	}

	if c.MACDSlowPeriod == 0 {
		c.MACDSlowPeriod = defaults.MACDSlowPeriod
	}

	if c.MACDSignalPeriod == 0 {
		c.MACDSignalPeriod = defaults.MACDSignalPeriod
	}

	if c.VolumeEMAPeriod == 0 {
		c.VolumeEMAPeriod = defaults.VolumeEMAPeriod
	}

	if c.VolumeSurgeRatio == 0 {
		c.VolumeSurgeRatio = defaults.VolumeSurgeRatio
	}

	if c.OBVLookback == 0 {
		c.OBVLookback = defaults.OBVLookback
	}

	if c.ATRPeriod == 0 {
		c.ATRPeriod = defaults.ATRPeriod
	}

	if c.ATRStopMultiplier == 0 {
		c.ATRStopMultiplier = defaults.ATRStopMultiplier
	}

	if c.ATRTakeMultiplier == 0 {
		c.ATRTakeMultiplier = defaults.ATRTakeMultiplier
	}

	if c.StopLossPct == 0 {
		c.StopLossPct = defaults.StopLossPct
	}

	if c.TakeProfitPct == 0 {
		c.TakeProfitPct = defaults.TakeProfitPct
	}

	if c.PositionSizePct == 0 {
		c.PositionSizePct = defaults.PositionSizePct
	}

	if c.GridSpacingPct == 0 {
		c.GridSpacingPct = defaults.GridSpacingPct
	}

	if c.GridAnchorPeriod == 0 {
		c.GridAnchorPeriod = defaults.GridAnchorPeriod
	}

	if c.DCAQuoteAmount == 0 {
		c.DCAQuoteAmount = defaults.DCAQuoteAmount
	}

	return c
}

// New constructs the strategy variant for the given ID.
func New(id ID, config Config) (Strategy, error) {
	config = config.withDefaults()

	switch id {
	case IDRSIOnly:
		return &RSIOnlyStrategy{config: config}, nil
	case IDVolumeFilter:
		return &VolumeFilterStrategy{config: config}, nil
	case IDAdvanced:
		return &AdvancedStrategy{config: config}, nil
	case IDGrid:
		return &GridStrategy{config: config}, nil
	case IDDCA:
		return &DCAStrategy{config: config}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy: %q", id)
	}
}
