package tracking

import (
	"sync"

	"github.com/rs/zerolog"
)

// DefaultBuffer is the dispatcher queue size used when none is given.
const DefaultBuffer = 1024

// Dispatcher decouples event recording from the sink with a bounded
// queue. When the queue is full, events are dropped and counted rather
// than applying backpressure to the evaluation path.
type Dispatcher struct {
	sink   Sink
	logger zerolog.Logger
	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewDispatcher starts a dispatcher delivering to the given sink.
func NewDispatcher(sink Sink, buffer int, logger zerolog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Record enqueues the event without blocking. Returns false if the event
// was dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Record(e Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}

	select {
	case d.events <- e:
		return true
	default:
		d.dropped++
		if d.dropped%1000 == 1 {
			d.logger.Warn().Uint64("dropped", d.dropped).Msg("tracking queue full")
		}
		return false
	}
}

// Dropped returns the number of events dropped so far.
func (d *Dispatcher) Dropped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Close drains the queue and stops the dispatcher. Events recorded after
// Close are dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.events)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.events {
		d.sink.Record(e)
	}
}
