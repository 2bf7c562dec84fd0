package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aurora-lab/aurora-trading/internal/types"
)

type SinkTestSuite struct {
	suite.Suite
}

func TestSinkSuite(t *testing.T) {
	suite.Run(t, new(SinkTestSuite))
}

func sampleEvent(t Type) Event {
	return Event{
		Time:   time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		Type:   t,
		UserID: "user-1",
		Symbol: "BTCUSDT",
		Action: types.SignalActionBuy,
		Qty:    0.001,
		Price:  50000,
	}
}

func (suite *SinkTestSuite) TestMemorySinkRecords() {
	sink := NewMemorySink()
	sink.Publish(sampleEvent(TypeSignal))
	sink.Publish(sampleEvent(TypeOrderFilled))

	suite.Len(sink.Events(), 2)
	suite.Len(sink.ByType(TypeOrderFilled), 1)
	suite.Empty(sink.ByType(TypeCycleAborted))
}

func (suite *SinkTestSuite) TestMemorySinkReturnsCopy() {
	sink := NewMemorySink()
	sink.Publish(sampleEvent(TypeSignal))

	events := sink.Events()
	events[0].Symbol = "ETHUSDT"
	suite.Equal("BTCUSDT", sink.Events()[0].Symbol)
}

func (suite *SinkTestSuite) TestAsyncSinkDelivers() {
	inner := NewMemorySink()
	sink := NewAsyncSink(inner, 8, nil)

	for i := 0; i < 5; i++ {
		sink.Publish(sampleEvent(TypeSignal))
	}

	sink.Close()
	suite.Len(inner.Events(), 5)
	suite.Zero(sink.Dropped())
}

// blockingSink holds deliveries until released.
type blockingSink struct {
	release chan struct{}
	once    sync.Once
	inner   *MemorySink
}

func (s *blockingSink) Publish(event Event) {
	<-s.release
	s.inner.Publish(event)
}

func (suite *SinkTestSuite) TestAsyncSinkDropsWhenFull() {
	blocking := &blockingSink{release: make(chan struct{}), inner: NewMemorySink()}
	sink := NewAsyncSink(blocking, 2, nil)

	// The delivery goroutine is stuck on the first event; two more fill the
	// buffer and the rest must drop without blocking
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			sink.Publish(sampleEvent(TypeSignal))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.FailNow("Publish blocked on a full buffer")
	}

	suite.Positive(sink.Dropped())
	close(blocking.release)
	sink.Close()
}

func (suite *SinkTestSuite) TestCloseIsIdempotent() {
	sink := NewAsyncSink(NewMemorySink(), 4, nil)
	sink.Close()
	sink.Close()
}
