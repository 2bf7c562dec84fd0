package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
	metrics *Metrics
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.metrics = New(prometheus.NewRegistry())
}

func (suite *MetricsTestSuite) TestCounters() {
	suite.metrics.ObserveCycle("ok", 50*time.Millisecond)
	suite.metrics.ObserveCycle("ok", 60*time.Millisecond)
	suite.metrics.ObserveCycle("aborted", 10*time.Millisecond)

	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.cyclesTotal.WithLabelValues("ok")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.cyclesTotal.WithLabelValues("aborted")))

	suite.metrics.RecordSignal("rsi_only", "BUY")
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.signalsTotal.WithLabelValues("rsi_only", "BUY")))

	suite.metrics.RecordRejection("ZERO_BALANCE")
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.rejectionsTotal.WithLabelValues("ZERO_BALANCE")))

	suite.metrics.RecordOrder("FILLED")
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.ordersTotal.WithLabelValues("FILLED")))
}

func (suite *MetricsTestSuite) TestGauges() {
	suite.metrics.SetEnabled("BTCUSDT", true)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.engineEnabled.WithLabelValues("BTCUSDT")))

	suite.metrics.SetEnabled("BTCUSDT", false)
	suite.Equal(0.0, testutil.ToFloat64(suite.metrics.engineEnabled.WithLabelValues("BTCUSDT")))

	suite.metrics.SetAvailableBalance(1234.5)
	suite.Equal(1234.5, testutil.ToFloat64(suite.metrics.accountBalance))
}

func (suite *MetricsTestSuite) TestNilReceiverIsNoOp() {
	var m *Metrics
	m.ObserveCycle("ok", time.Millisecond)
	m.RecordSignal("rsi_only", "BUY")
	m.RecordRejection("ZERO_BALANCE")
	m.RecordOrder("FILLED")
	m.SetEnabled("BTCUSDT", true)
	m.SetAvailableBalance(1)
}
