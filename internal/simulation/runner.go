// Package simulation drives the periodic tick over every kingdom.
package simulation

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/orchestrators/kingdom"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
)

// DefaultInterval is one game second
const DefaultInterval = time.Second

// TickAller advances every kingdom; the kingdom orchestrator implements it
type TickAller interface {
	TickAll(ctx context.Context, input *kingdom.TickAllInput) (*kingdom.TickAllOutput, error)
}

// Config holds the runner dependencies
type Config struct {
	Service  TickAller
	Interval time.Duration
	Clock    clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	if c.Interval < 0 {
		vb.Field("Interval", "must not be negative")
	}
	return vb.Build()
}

// Runner calls TickAll once per interval. When a pass overruns, the next
// pass applies one tick per elapsed interval so game time keeps pace with
// wall time.
type Runner struct {
	service  TickAller
	interval time.Duration
	clock    clock.Clock

	passes atomic.Uint64
	ticks  atomic.Uint64
}

// NewRunner creates a runner
func NewRunner(cfg *Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &Runner{
		service:  cfg.Service,
		interval: cfg.Interval,
		clock:    cfg.Clock,
	}
	if r.interval == 0 {
		r.interval = DefaultInterval
	}
	if r.clock == nil {
		r.clock = clock.New()
	}
	return r, nil
}

// Ticks returns the number of ticks applied so far
func (r *Runner) Ticks() uint64 {
	return r.ticks.Load()
}

// Passes returns the number of completed TickAll passes
func (r *Runner) Passes() uint64 {
	return r.passes.Load()
}

// Step runs one pass of n ticks over every kingdom
func (r *Runner) Step(ctx context.Context, n int) (*kingdom.TickAllOutput, error) {
	if n < 1 {
		n = 1
	}

	out, err := r.service.TickAll(ctx, &kingdom.TickAllInput{Ticks: n})
	if err != nil {
		return out, err
	}

	r.passes.Add(1)
	r.ticks.Add(uint64(n))
	return out, nil
}

// Run ticks until ctx is cancelled. It returns nil on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "simulation runner started", "interval", r.interval)

	last := r.clock.Now()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "simulation runner stopped",
				"ticks", r.Ticks(),
				"passes", r.Passes())
			return nil

		case <-ticker.C:
			now := r.clock.Now()
			n := r.elapsedTicks(last, now)
			if n == 0 {
				continue
			}

			out, err := r.Step(ctx, n)
			if err != nil {
				if errors.GetCode(err) == errors.CodeCanceled {
					continue
				}
				// last stays put so the next pass retries these intervals
				slog.ErrorContext(ctx, "tick pass failed", "ticks", n, "error", err)
				continue
			}
			last = last.Add(time.Duration(n) * r.interval)
			if out.Failed > 0 {
				slog.WarnContext(ctx, "tick pass had failures",
					"processed", out.Processed,
					"failed", out.Failed)
			}
		}
	}
}

// elapsedTicks is the number of whole intervals between last and now
func (r *Runner) elapsedTicks(last, now time.Time) int {
	elapsed := now.Sub(last)
	if elapsed < r.interval {
		return 0
	}
	return int(elapsed / r.interval)
}
