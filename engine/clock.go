package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Ticker is a system advanced once per simulation tick
type Ticker interface {
	Tick(tick uint64) error
}

// TickerFunc adapts a function to Ticker
type TickerFunc func(tick uint64) error

func (f TickerFunc) Tick(tick uint64) error { return f(tick) }

// Clock drives registered tickers on a fixed interval
// Tickers run sequentially in registration order on the clock goroutine,
// which keeps every tick deterministic for a given input sequence
type Clock struct {
	interval time.Duration
	tickers  []Ticker

	// Tick counter for debugging and metrics
	tickCount atomic.Uint64
}

// NewClock creates a clock with the given tick interval
func NewClock(interval time.Duration) *Clock {
	return &Clock{interval: interval}
}

// Register appends a ticker, must be called before Run
func (c *Clock) Register(t Ticker) {
	c.tickers = append(c.tickers, t)
}

// Step runs exactly one tick synchronously
// The first ticker error aborts the remaining tickers of that tick
func (c *Clock) Step() error {
	tick := c.tickCount.Add(1)
	for i, t := range c.tickers {
		if err := t.Tick(tick); err != nil {
			return errors.Wrapf(err, "tick %d ticker %d", tick, i)
		}
	}
	return nil
}

// Run ticks until ctx is cancelled or a ticker fails
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Step(); err != nil {
				return err
			}
		}
	}
}

// Ticks returns the number of ticks started
func (c *Clock) Ticks() uint64 {
	return c.tickCount.Load()
}

// Interval returns the configured tick interval
func (c *Clock) Interval() time.Duration {
	return c.interval
}
