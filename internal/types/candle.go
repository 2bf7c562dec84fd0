package types

import (
	"time"

	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// Interval identifies a kline interval in the exchange's notation.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

// Series is an ordered candle sequence with strictly increasing timestamps.
// It is owned by the caller for the duration of one evaluation cycle and is
// never mutated by the engine.
type Series []Candle

// Closes returns the closing prices of the series in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}

	return closes
}

// Volumes returns the volumes of the series in order.
func (s Series) Volumes() []float64 {
	volumes := make([]float64, len(s))
	for i, c := range s {
		volumes[i] = c.Volume
	}

	return volumes
}

// Last returns the most recent candle of the series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}

	return s[len(s)-1], true
}

// Validate checks that timestamps are strictly increasing with no duplicates.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidParameter,
				"candle series timestamps must be strictly increasing, index %d is not after index %d", i, i-1)
		}
	}

	return nil
}
