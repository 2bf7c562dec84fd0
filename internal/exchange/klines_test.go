package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurora-lab/aurora-trading/pkg/errors"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// fakeMarketData serves canned series or errors per interval.
type fakeMarketData struct {
	series map[types.Interval]types.Series
	errs   map[types.Interval]error
	calls  []types.Interval
}

func (f *fakeMarketData) GetKlines(_ context.Context, _ string, interval types.Interval, _ int) (types.Series, error) {
	f.calls = append(f.calls, interval)

	if err := f.errs[interval]; err != nil {
		return nil, err
	}

	return f.series[interval], nil
}

func (f *fakeMarketData) GetTickerPrice(_ context.Context, _ string) (float64, error) {
	return 0, nil
}

func singleCandleSeries() types.Series {
	return types.Series{{
		Time:   time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		Open:   100,
		High:   101,
		Low:    99,
		Close:  100,
		Volume: 10,
	}}
}

type KlineFetcherTestSuite struct {
	suite.Suite
}

func TestKlineFetcherSuite(t *testing.T) {
	suite.Run(t, new(KlineFetcherTestSuite))
}

func (suite *KlineFetcherTestSuite) TestFirstIntervalWins() {
	source := &fakeMarketData{series: map[types.Interval]types.Series{
		types.Interval5m: singleCandleSeries(),
		types.Interval1h: singleCandleSeries(),
	}}

	fetcher := NewKlineFetcher(source, nil, nil)
	_, interval, err := fetcher.FetchPreferred(context.Background(), "BTCUSDT", 100)
	suite.Require().NoError(err)
	suite.Equal(types.Interval5m, interval)
	suite.Equal([]types.Interval{types.Interval5m}, source.calls)
}

func (suite *KlineFetcherTestSuite) TestFallsBackPastEmptyAndFailed() {
	source := &fakeMarketData{
		series: map[types.Interval]types.Series{
			types.Interval15m: {},
			types.Interval1h:  singleCandleSeries(),
		},
		errs: map[types.Interval]error{
			types.Interval5m: errors.New(errors.ErrCodeKlineFetchFailed, "timeout"),
		},
	}

	fetcher := NewKlineFetcher(source, nil, nil)
	series, interval, err := fetcher.FetchPreferred(context.Background(), "BTCUSDT", 100)
	suite.Require().NoError(err)
	suite.Equal(types.Interval1h, interval)
	suite.Len(series, 1)
	suite.Equal([]types.Interval{types.Interval5m, types.Interval15m, types.Interval1h}, source.calls)
}

func (suite *KlineFetcherTestSuite) TestAllEmpty() {
	fetcher := NewKlineFetcher(&fakeMarketData{}, nil, nil)

	_, _, err := fetcher.FetchPreferred(context.Background(), "BTCUSDT", 100)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *KlineFetcherTestSuite) TestAllFailed() {
	source := &fakeMarketData{errs: map[types.Interval]error{
		types.Interval5m:  errors.New(errors.ErrCodeKlineFetchFailed, "down"),
		types.Interval15m: errors.New(errors.ErrCodeKlineFetchFailed, "down"),
		types.Interval1h:  errors.New(errors.ErrCodeKlineFetchFailed, "down"),
	}}

	fetcher := NewKlineFetcher(source, nil, nil)
	_, _, err := fetcher.FetchPreferred(context.Background(), "BTCUSDT", 100)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeKlineFetchFailed))
}

func (suite *KlineFetcherTestSuite) TestCustomPreferenceOrder() {
	source := &fakeMarketData{series: map[types.Interval]types.Series{
		types.Interval1h: singleCandleSeries(),
	}}

	fetcher := NewKlineFetcher(source, []types.Interval{types.Interval1h, types.Interval5m}, nil)
	_, interval, err := fetcher.FetchPreferred(context.Background(), "BTCUSDT", 100)
	suite.Require().NoError(err)
	suite.Equal(types.Interval1h, interval)
}
