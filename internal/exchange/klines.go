package exchange

import (
	"context"

	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/logger"
	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// KlineFetcher fetches candle history walking an explicit ordered interval
// preference list; the first interval yielding data wins.
type KlineFetcher struct {
	source    MarketDataSource
	intervals []types.Interval
	logger    *logger.Logger
}

// DefaultIntervalPreference is the stock fallback order for strategy input.
func DefaultIntervalPreference() []types.Interval {
	return []types.Interval{types.Interval5m, types.Interval15m, types.Interval1h}
}

// NewKlineFetcher creates a fetcher over the given preference list.
func NewKlineFetcher(source MarketDataSource, intervals []types.Interval, log *logger.Logger) *KlineFetcher {
	if len(intervals) == 0 {
		intervals = DefaultIntervalPreference()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &KlineFetcher{
		source:    source,
		intervals: intervals,
		logger:    log,
	}
}

// FetchPreferred returns the first non-empty series along the preference
// list together with the interval that produced it.
func (f *KlineFetcher) FetchPreferred(ctx context.Context, symbol string, limit int) (types.Series, types.Interval, error) {
	var lastErr error

	for _, interval := range f.intervals {
		series, err := f.source.GetKlines(ctx, symbol, interval, limit)
		if err != nil {
			lastErr = err
			f.logger.Warn("kline fetch failed, trying next interval",
				zap.String("symbol", symbol),
				zap.String("interval", string(interval)),
				zap.Error(err))

			continue
		}

		if len(series) > 0 {
			return series, interval, nil
		}
	}

	if lastErr != nil {
		return nil, "", errors.Wrapf(errors.ErrCodeKlineFetchFailed, lastErr, "all intervals failed for %s", symbol)
	}

	return nil, "", errors.Newf(errors.ErrCodeDataNotFound, "no kline data for %s on any interval", symbol)
}
