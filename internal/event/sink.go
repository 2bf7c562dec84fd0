package event

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/logger"
)

// LogSink writes events to the structured log.
type LogSink struct {
	logger *logger.Logger
}

var _ Sink = (*LogSink)(nil)

// NewLogSink creates a sink that logs each event.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &LogSink{logger: log}
}

func (s *LogSink) Publish(event Event) {
	s.logger.Info("trade event",
		zap.String("type", string(event.Type)),
		zap.String("user", event.UserID),
		zap.String("symbol", event.Symbol),
		zap.String("strategy", event.Strategy),
		zap.String("action", string(event.Action)),
		zap.Float64("qty", event.Qty),
		zap.Float64("price", event.Price),
		zap.String("reason", event.Reason),
		zap.String("detail", event.Detail))
}

// AsyncSink decouples the publisher from a possibly slow inner sink via a
// bounded buffer. When the buffer is full the event is dropped and counted.
type AsyncSink struct {
	inner   Sink
	ch      chan Event
	done    chan struct{}
	dropped atomic.Int64
	logger  *logger.Logger
	once    sync.Once
}

var _ Sink = (*AsyncSink)(nil)

// NewAsyncSink starts the delivery goroutine and returns the sink. Close
// flushes the buffer and stops delivery.
func NewAsyncSink(inner Sink, buffer int, log *logger.Logger) *AsyncSink {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if buffer <= 0 {
		buffer = 64
	}

	s := &AsyncSink{
		inner:  inner,
		ch:     make(chan Event, buffer),
		done:   make(chan struct{}),
		logger: log,
	}

	go s.run()

	return s
}

func (s *AsyncSink) run() {
	defer close(s.done)

	for event := range s.ch {
		s.inner.Publish(event)
	}
}

// Publish enqueues the event, dropping it if the buffer is full.
func (s *AsyncSink) Publish(event Event) {
	select {
	case s.ch <- event:
	default:
		n := s.dropped.Add(1)
		s.logger.Warn("event buffer full, dropping event",
			zap.String("type", string(event.Type)),
			zap.Int64("dropped_total", n))
	}
}

// Dropped returns the number of events dropped so far.
func (s *AsyncSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close drains buffered events and stops the delivery goroutine.
func (s *AsyncSink) Close() {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
}

// MemorySink records events in memory. Used by the paper trading mode and
// by tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

var _ Sink = (*MemorySink)(nil)

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
}

// Events returns a copy of the recorded events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)

	return out
}

// ByType returns the recorded events of the given type.
func (s *MemorySink) ByType(t Type) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event

	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}

	return out
}
