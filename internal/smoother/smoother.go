// Package smoother ties a grabbed physical mouse to a synthetic output
// device through the wheel-smoothing pipeline.
package smoother

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ITJesse/mouse-smoother/internal/config"
	"github.com/ITJesse/mouse-smoother/internal/evdev"
	"github.com/ITJesse/mouse-smoother/internal/filter"
)

// pollInterval is how long the loop sleeps when the device has no event
// ready. Trades a little latency for not spinning a core.
const pollInterval = 500 * time.Microsecond

// Session owns one physical device, its virtual counterpart and the
// pipeline between them. All pipeline state is confined to the goroutine
// running Run; pause and stats use atomics so the API and tray can touch
// them from outside.
type Session struct {
	dev      *evdev.Device
	out      *evdev.UInput
	pipeline *filter.Pipeline
	log      *slog.Logger
	stats    Stats
	paused   atomic.Bool
	hook     atomic.Pointer[func(filter.Decision)]
}

// New grabs the physical device at path and registers the synthetic output
// device. On any setup failure everything already acquired is released.
func New(path string, cfg *config.Config, log *slog.Logger) (*Session, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	log.Info("intercepting device", "name", dev.Name(), "path", dev.Path())

	if err := dev.Grab(); err != nil {
		dev.Close()
		return nil, err
	}

	out, err := evdev.CreateVirtualMouse("Virtual " + dev.Name())
	if err != nil {
		dev.Close()
		return nil, err
	}
	log.Info("created virtual device", "name", out.Name())

	s := &Session{
		dev: dev,
		out: out,
		log: log,
	}

	s.pipeline = filter.NewPipeline(filter.Params{
		DebounceTime:    cfg.DebounceTime(),
		HDebounceTime:   cfg.HDebounceTime(),
		DebounceTimeout: cfg.DebounceTimeout(),
	}, log)
	s.pipeline.SetDecisionHook(s.recordDecision)

	return s, nil
}

// DeviceName returns the grabbed device's name.
func (s *Session) DeviceName() string { return s.dev.Name() }

// DevicePath returns the grabbed device's node path.
func (s *Session) DevicePath() string { return s.dev.Path() }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Snapshot { return s.stats.Snapshot() }

// SetPaused bypasses the pipeline when true: all events pass verbatim.
func (s *Session) SetPaused(paused bool) {
	s.paused.Store(paused)
	s.log.Info("smoothing paused state changed", "paused", paused)
}

// Paused reports whether smoothing is bypassed.
func (s *Session) Paused() bool { return s.paused.Load() }

// SetDecisionHook registers an observer for every wheel verdict. The hook
// runs on the processing goroutine and must not block.
func (s *Session) SetDecisionHook(fn func(filter.Decision)) {
	s.hook.Store(&fn)
}

func (s *Session) recordDecision(d filter.Decision) {
	if d.Suppressed {
		switch d.Axis {
		case filter.AxisVertical:
			s.stats.suppressedVertical.Add(1)
		case filter.AxisHorizontal:
			s.stats.suppressedHorizontal.Add(1)
		}
	}
	if fn := s.hook.Load(); fn != nil {
		(*fn)(d)
	}
}

// Run drives the poll loop until ctx is cancelled or an I/O failure occurs.
// Transient no-data reads are retried after a short sleep; any other read
// or write error ends the session.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("processing wheel events; other events pass through")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := s.dev.NextEvent()
		if errors.Is(err, evdev.ErrNoEvent) {
			time.Sleep(pollInterval)
			continue
		}
		if err != nil {
			return fmt.Errorf("input device: %w", err)
		}

		s.stats.eventsIn.Add(1)

		if s.paused.Load() {
			if err := s.writeEvent(ev); err != nil {
				return err
			}
			continue
		}

		outs := s.pipeline.Process(ev, time.Now())
		if outs == nil {
			continue
		}
		s.stats.cycles.Add(1)
		for _, o := range outs {
			if err := s.writeEvent(o); err != nil {
				return err
			}
		}
	}
}

func (s *Session) writeEvent(ev evdev.Event) error {
	if err := s.out.WriteEvent(ev); err != nil {
		return fmt.Errorf("virtual device: %w", err)
	}
	s.stats.eventsOut.Add(1)
	return nil
}

// Close releases the exclusive grab and unregisters the virtual device. It
// is safe to call after a failed Run and runs on every exit path so the
// physical mouse returns to normal for other consumers.
func (s *Session) Close() error {
	devErr := s.dev.Close()
	outErr := s.out.Close()
	if devErr != nil {
		return devErr
	}
	return outErr
}
