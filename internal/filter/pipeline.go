package filter

import (
	"log/slog"
	"time"

	"github.com/ITJesse/mouse-smoother/internal/evdev"
)

// Axis names a scrollable dimension.
type Axis string

const (
	AxisVertical   Axis = "vertical"
	AxisHorizontal Axis = "horizontal"
)

// Decision records one debouncer verdict, for logging, recording and the
// live websocket tap.
type Decision struct {
	At         time.Time `json:"-"`
	Axis       Axis      `json:"axis"`
	Raw        int32     `json:"raw"`
	Filtered   int32     `json:"filtered"`
	Suppressed bool      `json:"suppressed"`
}

// Params are the debouncer timings, one window per axis plus the shared
// reversal timeout.
type Params struct {
	DebounceTime    time.Duration
	HDebounceTime   time.Duration
	DebounceTimeout time.Duration
}

// Pipeline is the per-device smoothing pipeline. It owns the cycle grouper
// and one debouncer per wheel axis; all state is confined to the single
// processing goroutine that calls Process.
type Pipeline struct {
	grouper    Grouper
	vertical   *Debouncer
	horizontal *Debouncer
	log        *slog.Logger
	onDecision func(Decision)
}

// NewPipeline builds a pipeline from the configured timings.
func NewPipeline(p Params, log *slog.Logger) *Pipeline {
	return &Pipeline{
		vertical:   NewDebouncer(p.DebounceTime, p.DebounceTimeout),
		horizontal: NewDebouncer(p.HDebounceTime, p.DebounceTimeout),
		log:        log,
	}
}

// SetDecisionHook registers a callback invoked for every wheel verdict, from
// the processing goroutine.
func (p *Pipeline) SetDecisionHook(fn func(Decision)) {
	p.onDecision = fn
}

// Process feeds one raw event through the pipeline. Non-sync events are
// buffered and nil is returned; a SYN_REPORT closes the cycle and returns
// the events to emit, ending with the marker itself.
func (p *Pipeline) Process(ev evdev.Event, now time.Time) []evdev.Event {
	if !ev.IsSync() {
		p.grouper.Push(ev)
		return nil
	}

	batch := p.grouper.Flush()
	if len(batch) == 0 {
		return []evdev.Event{ev}
	}

	ex := Extract(batch)
	out := make([]evdev.Event, 0, len(batch)+1)

	// Non-wheel events pass through unchanged regardless of what the
	// debouncers decide about the wheel.
	out = append(out, ex.Passthrough...)

	if ex.Vertical.Active() {
		out = p.reconstruct(out, AxisVertical, p.vertical, ex.Vertical, now,
			evdev.REL_WHEEL, evdev.REL_WHEEL_HI_RES)
	}
	if ex.Horizontal.Active() {
		out = p.reconstruct(out, AxisHorizontal, p.horizontal, ex.Horizontal, now,
			evdev.REL_HWHEEL, evdev.REL_HWHEEL_HI_RES)
	}

	return append(out, ev)
}

// reconstruct runs one axis through its debouncer and appends the resulting
// zero, one or two wheel events.
func (p *Pipeline) reconstruct(out []evdev.Event, axis Axis, d *Debouncer, s WheelSample, now time.Time, stdCode, hiResCode uint16) []evdev.Event {
	filtered := d.Smooth(s.HiRes, now)

	if p.onDecision != nil {
		p.onDecision(Decision{
			At:         now,
			Axis:       axis,
			Raw:        s.HiRes,
			Filtered:   filtered,
			Suppressed: filtered == 0,
		})
	}

	if filtered == 0 {
		p.log.Debug("wheel event suppressed", "axis", string(axis), "raw", s.HiRes)
		return out
	}

	// Truncating division: anything below a full notch emits no legacy event.
	if standard := filtered / HiResPerNotch; standard != 0 {
		out = append(out, evdev.Event{Type: evdev.EV_REL, Code: stdCode, Value: standard})
	}
	return append(out, evdev.Event{Type: evdev.EV_REL, Code: hiResCode, Value: filtered})
}
