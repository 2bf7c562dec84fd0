package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MovingAverageTestSuite struct {
	suite.Suite
}

func TestMovingAverageSuite(t *testing.T) {
	suite.Run(t, new(MovingAverageTestSuite))
}

func (suite *MovingAverageTestSuite) TestSMA() {
	result := SMA([]float64{1, 2, 3, 4, 5}, 3)
	suite.Equal([]float64{2, 3, 4}, result)
}

func (suite *MovingAverageTestSuite) TestSMAInsufficientData() {
	suite.Nil(SMA([]float64{1, 2}, 3))
	suite.Nil(SMA(nil, 3))
	suite.Nil(SMA([]float64{1, 2, 3}, 0))
}

func (suite *MovingAverageTestSuite) TestEMASeedEqualsSMA() {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	result := EMA(values, 3)
	suite.Len(result, 8)
	// Seeded with SMA of the first 3 values
	suite.Equal(2.0, result[0])
	// On a linear ramp with period 3 the EMA tracks one step behind
	suite.InDelta(9.0, result[len(result)-1], 1e-9)
}

func (suite *MovingAverageTestSuite) TestEMAInsufficientData() {
	suite.Nil(EMA([]float64{1, 2}, 3))
}

func (suite *MovingAverageTestSuite) TestEMAConstantSeries() {
	values := []float64{5, 5, 5, 5, 5}
	result := EMA(values, 3)

	for _, v := range result {
		suite.Equal(5.0, v)
	}
}
