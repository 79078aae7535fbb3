// Package live drives the refreshing dashboard: it samples once, then
// re-reads thermals every interval and hands each rendered frame to a
// Display until its context is cancelled.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/luki/specc/internal/clock"
	"github.com/luki/specc/internal/render"
	"github.com/luki/specc/internal/report"
)

// Display shows frames. Show is called from the controller goroutine
// only; Close is called once when the loop stops.
type Display interface {
	Show(f render.Frame) error
	Close() error
}

// Controller owns the long-lived report of a live session.
type Controller struct {
	reader   report.Reader
	display  Display
	interval time.Duration
	clock    clock.Clock
	render   func(report.Report) render.Frame
	logger   *slog.Logger

	mu    sync.Mutex
	held  report.Report
	ticks int
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the real clock.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithRenderer replaces render.Render.
func WithRenderer(fn func(report.Report) render.Frame) Option {
	return func(ctrl *Controller) { ctrl.render = fn }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(ctrl *Controller) { ctrl.logger = l }
}

// New returns a controller sampling reader every interval.
func New(reader report.Reader, display Display, interval time.Duration, opts ...Option) (*Controller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("live: interval must be positive, got %v", interval)
	}
	if reader == nil || display == nil {
		return nil, errors.New("live: reader and display are required")
	}
	c := &Controller{
		reader:   reader,
		display:  display,
		interval: interval,
		clock:    clock.Real(),
		render:   render.Render,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run shows the initial report, then refreshes it every interval until
// ctx is done. Cancellation is a normal stop and returns nil; a failing
// Display stops the loop with its error. The Display is closed on
// every return.
func (c *Controller) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := c.display.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close display: %w", cerr)
		}
	}()

	c.mu.Lock()
	c.held = report.Assemble(ctx, c.reader, c.clock.Now)
	first := c.held.Clone()
	c.mu.Unlock()

	c.logger.Info("live loop started", "interval", c.interval)
	if err := c.show(first); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("live loop stopped", "ticks", c.Ticks())
			return nil
		case <-c.clock.After(c.interval):
		}
		if ctx.Err() != nil {
			c.logger.Info("live loop stopped", "ticks", c.Ticks())
			return nil
		}

		if err := c.show(c.tick(ctx)); err != nil {
			return err
		}
	}
}

// tick re-reads thermals into the held report and returns a copy.
// Identity and hardware are left as first sampled.
func (c *Controller) tick(ctx context.Context) report.Report {
	thermals := c.reader.ReadThermalData(ctx)
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.held.Thermals = thermals
	c.held.Metadata.GeneratedAt = now
	c.ticks++
	c.logger.Debug("live tick", "tick", c.ticks, "available", thermals.Available())
	return c.held.Clone()
}

func (c *Controller) show(r report.Report) error {
	if err := c.display.Show(c.render(r)); err != nil {
		c.logger.Error("display failed", "error", err)
		return fmt.Errorf("show frame: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the held report.
func (c *Controller) Snapshot() report.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held.Clone()
}

// Ticks returns the number of refreshes since Run started.
func (c *Controller) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
