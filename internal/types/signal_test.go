package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestIsActionable() {
	testCases := []struct {
		name     string
		action   SignalAction
		expected bool
	}{
		{name: "buy is actionable", action: SignalActionBuy, expected: true},
		{name: "sell is actionable", action: SignalActionSell, expected: true},
		{name: "hold is not actionable", action: SignalActionHold, expected: false},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			signal := Signal{Action: tc.action}
			suite.Equal(tc.expected, signal.IsActionable())
		})
	}
}

func (suite *SignalTestSuite) TestHasReasonTag() {
	signal := Signal{ReasonTags: []string{ReasonTagRSIOversold, ReasonTagVolumeSurge}}
	suite.True(signal.HasReasonTag(ReasonTagRSIOversold))
	suite.True(signal.HasReasonTag(ReasonTagVolumeSurge))
	suite.False(signal.HasReasonTag(ReasonTagInsufficientData))
}

func (suite *SignalTestSuite) TestHasReasonTagEmpty() {
	suite.False(Signal{}.HasReasonTag(ReasonTagInsufficientData))
}
