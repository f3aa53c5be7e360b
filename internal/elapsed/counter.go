package elapsed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ganot/nossoday/internal/clock"
)

// DefaultInterval is the refresh cadence of a live counter.
const DefaultInterval = time.Second

// ErrStopped is returned by Run when the counter was stopped explicitly.
var ErrStopped = errors.New("counter stopped")

// Sink receives every breakdown a Counter produces. Calls are sequential.
type Sink interface {
	Update(ctx context.Context, b Breakdown) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, b Breakdown) error

// Update calls f.
func (f SinkFunc) Update(ctx context.Context, b Breakdown) error {
	return f(ctx, b)
}

// Counter recomputes the breakdown from a fixed start to the clock's
// current instant on every tick and writes it to a sink.
type Counter struct {
	start    time.Time
	clock    clock.Clock
	interval time.Duration
	sink     Sink

	once sync.Once
	stop chan struct{}
}

// NewCounter creates a counter. A non-positive interval means DefaultInterval.
func NewCounter(start time.Time, clk clock.Clock, interval time.Duration, sink Sink) *Counter {
	if clk == nil {
		clk = clock.Real{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Counter{
		start:    start,
		clock:    clk,
		interval: interval,
		sink:     sink,
		stop:     make(chan struct{}),
	}
}

// Run writes the current breakdown once and then on every tick until
// ctx is done, Stop is called, or the sink fails.
func (c *Counter) Run(ctx context.Context) error {
	if err := c.render(ctx); err != nil {
		return err
	}

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return ErrStopped
		case <-ticker.C():
			if err := c.render(ctx); err != nil {
				return err
			}
		}
	}
}

// Stop ends a running counter. It is safe to call more than once.
func (c *Counter) Stop() {
	c.once.Do(func() {
		close(c.stop)
	})
}

// Current returns the breakdown for the clock's current instant.
func (c *Counter) Current() Breakdown {
	return Between(c.start, c.clock.Now())
}

func (c *Counter) render(ctx context.Context) error {
	return c.sink.Update(ctx, c.Current())
}
