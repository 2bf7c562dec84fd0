package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SupportResistanceTestSuite struct {
	suite.Suite
}

func TestSupportResistanceSuite(t *testing.T) {
	suite.Run(t, new(SupportResistanceTestSuite))
}

func (suite *SupportResistanceTestSuite) TestLevelsAroundLastClose() {
	closes := []float64{10, 9, 8, 9, 10, 11, 12, 11, 10, 9, 8.5, 9, 10}

	levels := SupportResistance(closes, 2)
	suite.True(levels.HasSupport)
	suite.True(levels.HasResistance)
	// Closest local minimum below the last close of 10
	suite.Equal(8.5, levels.Support)
	// Closest local maximum above the last close
	suite.Equal(12.0, levels.Resistance)
}

func (suite *SupportResistanceTestSuite) TestNoLevels() {
	// Monotonic series has no interior extrema
	levels := SupportResistance(ramp(15), 2)
	suite.False(levels.HasSupport)
	suite.False(levels.HasResistance)
}

func (suite *SupportResistanceTestSuite) TestInsufficientData() {
	levels := SupportResistance([]float64{1, 2, 3}, 2)
	suite.False(levels.HasSupport)
	suite.False(levels.HasResistance)
}
