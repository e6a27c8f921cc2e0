// Package filter implements the scroll-wheel smoothing pipeline: grouping raw
// events into report cycles, extracting per-axis wheel deltas, debouncing
// direction reversals, and rebuilding the outgoing event stream.
package filter

import "time"

// reversalFloor is the minimum high-resolution magnitude (2.5 notches) a
// slow reversal must carry to be accepted as a deliberate direction change.
const reversalFloor = 300

// Debouncer suppresses spurious scroll direction reversals on one wheel
// axis. It is a pure state machine: every input maps deterministically to an
// output, and a suppressed event is expressed as the value 0, never as an
// error.
//
// Two timers govern suppression. debounceTime is the gap above which an
// event starts a new gesture and is always accepted. debounceTimeout bounds,
// from the first suppressed reversal, how long a reversal run may keep being
// treated as jitter; it also separates "immediately reversing" (mechanical
// bounce) from "reversing after a pause" (intentional, filtered only by the
// magnitude floor).
type Debouncer struct {
	debounceTime    time.Duration
	debounceTimeout time.Duration

	lastDirection int32
	lastEventTime time.Time
	debounceStart time.Time
}

// NewDebouncer creates a debouncer for one axis. lastEventTime starts at the
// zero time so the first event always opens a new gesture.
func NewDebouncer(debounceTime, debounceTimeout time.Duration) *Debouncer {
	return &Debouncer{
		debounceTime:    debounceTime,
		debounceTimeout: debounceTimeout,
	}
}

// Smooth maps a raw high-resolution delta and its arrival time to a filtered
// delta. A return of 0 means the event is suppressed.
func (d *Debouncer) Smooth(value int32, now time.Time) int32 {
	direction := sign(value)
	sinceLast := now.Sub(d.lastEventTime)

	// A long gap means a new scroll gesture: accept unconditionally.
	if sinceLast > d.debounceTime {
		d.lastDirection = direction
		d.lastEventTime = now
		d.debounceStart = time.Time{}
		return value
	}

	d.lastEventTime = now

	if direction != 0 && direction != d.lastDirection {
		// A reversal run only counts as jitter for so long.
		if !d.debounceStart.IsZero() && now.Sub(d.debounceStart) > d.debounceTimeout {
			d.debounceStart = time.Time{}
			d.lastDirection = direction
			return value
		}

		// Reversing right after the previous event is mechanical bounce.
		// lastDirection stays put so a rapid back-and-forth keeps resolving
		// against the original direction.
		if sinceLast < d.debounceTimeout {
			if d.debounceStart.IsZero() {
				d.debounceStart = now
			}
			return 0
		}

		// Reversal after a pause: intentional unless it is too small to be.
		if abs(value) <= reversalFloor {
			return 0
		}
		d.lastDirection = direction
		d.debounceStart = time.Time{}
		return value
	}

	// Same direction: normal scrolling.
	if direction != 0 {
		d.lastDirection = direction
		return value
	}

	return 0
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
