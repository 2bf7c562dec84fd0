package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

type CandlestickTestSuite struct {
	suite.Suite
}

func TestCandlestickSuite(t *testing.T) {
	suite.Run(t, new(CandlestickTestSuite))
}

func candleAt(i int, open, high, low, close float64) types.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return types.Candle{
		Time:   start.Add(time.Duration(i) * time.Minute),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 100,
	}
}

func (suite *CandlestickTestSuite) TestBullishEngulfing() {
	candles := types.Series{
		candleAt(0, 10.2, 10.4, 10.0, 10.1),
		candleAt(1, 10.0, 10.1, 9.4, 9.5), // bearish
		candleAt(2, 9.4, 10.8, 9.3, 10.6), // bullish, engulfs previous body
	}

	suite.Equal(1, PatternSignal(candles))
}

func (suite *CandlestickTestSuite) TestBearishEngulfing() {
	candles := types.Series{
		candleAt(0, 10.0, 10.2, 9.8, 10.1),
		candleAt(1, 10.1, 10.7, 10.0, 10.6), // bullish
		candleAt(2, 10.7, 10.8, 9.9, 10.0), // bearish, engulfs previous body
	}

	suite.Equal(-1, PatternSignal(candles))
}

func (suite *CandlestickTestSuite) TestThreeWhiteSoldiers() {
	candles := types.Series{
		candleAt(0, 10.0, 10.6, 9.9, 10.5),
		candleAt(1, 10.5, 11.1, 10.4, 11.0),
		candleAt(2, 11.0, 11.6, 10.9, 11.5),
	}

	suite.Equal(1, PatternSignal(candles))
}

func (suite *CandlestickTestSuite) TestThreeBlackCrows() {
	candles := types.Series{
		candleAt(0, 11.5, 11.6, 10.9, 11.0),
		candleAt(1, 11.0, 11.1, 10.4, 10.5),
		candleAt(2, 10.5, 10.6, 9.9, 10.0),
	}

	suite.Equal(-1, PatternSignal(candles))
}

func (suite *CandlestickTestSuite) TestDojiIsNeutral() {
	candles := types.Series{
		candleAt(0, 10.0, 10.5, 9.5, 10.0),
		candleAt(1, 10.0, 10.5, 9.5, 10.01),
		candleAt(2, 10.0, 10.5, 9.5, 10.01),
	}

	suite.Equal(0, PatternSignal(candles))
}

func (suite *CandlestickTestSuite) TestTooFewCandles() {
	candles := types.Series{
		candleAt(0, 10, 11, 9, 10.5),
		candleAt(1, 10.5, 11.5, 10, 11),
	}

	suite.Equal(0.0, PatternScore(candles))
	suite.Equal(0, PatternSignal(candles))
}

func (suite *CandlestickTestSuite) TestScoreIsDeterministic() {
	candles := types.Series{
		candleAt(0, 10.2, 10.4, 10.0, 10.1),
		candleAt(1, 10.0, 10.1, 9.4, 9.5),
		candleAt(2, 9.4, 10.8, 9.3, 10.6),
	}

	suite.Equal(PatternScore(candles), PatternScore(candles))
}
