package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurora-lab/aurora-trading/pkg/errors"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

// stubKlineSource serves canned series per interval.
type stubKlineSource struct {
	series map[types.Interval]types.Series
	err    error
}

func (s *stubKlineSource) GetKlines(_ context.Context, _ string, interval types.Interval, _ int) (types.Series, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.series[interval], nil
}

type RSIFilterTestSuite struct {
	suite.Suite
}

func TestRSIFilterSuite(t *testing.T) {
	suite.Run(t, new(RSIFilterTestSuite))
}

// seriesWithRSI builds a 20-candle series whose trailing RSI(14) is 0 for
// falling, 100 for rising, and 50 for flat closes.
func trendSeries(direction int) types.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.Series, 20)

	price := 100.0
	for i := range series {
		price += float64(direction)
		series[i] = types.Candle{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 100,
		}
	}

	return series
}

func (suite *RSIFilterTestSuite) filter(config Config, source KlineSource) *RSIFilter {
	return NewRSIFilter(config, source, nil)
}

func (suite *RSIFilterTestSuite) TestLongPassesWhenBothTimeframesDepressed() {
	source := &stubKlineSource{series: map[types.Interval]types.Series{
		types.Interval5m: trendSeries(-1), // RSI 0
		types.Interval1h: trendSeries(-1),
	}}

	result := suite.filter(DefaultConfig(), source).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.True(result.Passed)
	suite.True(result.HasData)
	suite.Less(result.RSI5m, 30.0)
}

func (suite *RSIFilterTestSuite) TestLongBlockedWhenHourlyElevated() {
	source := &stubKlineSource{series: map[types.Interval]types.Series{
		types.Interval5m: trendSeries(-1), // RSI 0
		types.Interval1h: trendSeries(1),  // RSI 100
	}}

	result := suite.filter(DefaultConfig(), source).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.False(result.Passed)
	suite.True(result.HasData)
}

func (suite *RSIFilterTestSuite) TestShortPassesWhenBothTimeframesElevated() {
	source := &stubKlineSource{series: map[types.Interval]types.Series{
		types.Interval5m: trendSeries(1),
		types.Interval1h: trendSeries(1),
	}}

	result := suite.filter(DefaultConfig(), source).CheckConditions(context.Background(), "BTCUSDT", DirectionShort)
	suite.True(result.Passed)
}

func (suite *RSIFilterTestSuite) TestLongAndShortNeverBothPass() {
	for _, direction := range []int{-1, 0, 1} {
		source := &stubKlineSource{series: map[types.Interval]types.Series{
			types.Interval5m: trendSeries(direction),
			types.Interval1h: trendSeries(direction),
		}}

		f := suite.filter(DefaultConfig(), source)
		long := f.CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
		short := f.CheckConditions(context.Background(), "BTCUSDT", DirectionShort)
		suite.False(long.Passed && short.Passed)
	}
}

func (suite *RSIFilterTestSuite) TestReducedModeIgnoresHourly() {
	source := &stubKlineSource{series: map[types.Interval]types.Series{
		types.Interval5m: trendSeries(-1),
		// 1h would block in full mode
		types.Interval1h: trendSeries(1),
	}}

	config := DefaultConfig()
	config.Reduced = true

	result := suite.filter(config, source).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.True(result.Passed)
}

func (suite *RSIFilterTestSuite) TestDisabledFilterPassesEverything() {
	config := DefaultConfig()
	config.Enabled = false

	result := suite.filter(config, &stubKlineSource{}).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.True(result.Passed)
}

func (suite *RSIFilterTestSuite) TestFetchErrorDoesNotPass() {
	source := &stubKlineSource{err: errors.New(errors.ErrCodeKlineFetchFailed, "boom")}

	result := suite.filter(DefaultConfig(), source).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.False(result.Passed)
	suite.False(result.HasData)
}

func (suite *RSIFilterTestSuite) TestInsufficientDataDoesNotPass() {
	source := &stubKlineSource{series: map[types.Interval]types.Series{
		types.Interval5m: trendSeries(-1)[:5],
	}}

	result := suite.filter(DefaultConfig(), source).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.False(result.Passed)
	suite.Equal("no 5m data", result.Detail)
}

func (suite *RSIFilterTestSuite) TestMissingHourlyDoesNotPass() {
	source := &stubKlineSource{series: map[types.Interval]types.Series{
		types.Interval5m: trendSeries(-1),
	}}

	result := suite.filter(DefaultConfig(), source).CheckConditions(context.Background(), "BTCUSDT", DirectionLong)
	suite.False(result.Passed)
	suite.Equal("no 1h data", result.Detail)
}
