package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time {
	return base.Add(offset)
}

func TestFirstEventOpensGesture(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	assert.Equal(t, int32(120), d.Smooth(120, at(0)))
	assert.Equal(t, int32(1), d.lastDirection)
}

func TestNewGestureAfterIdleGap(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))
	// Gap above debounceTime: even a reversal is accepted unconditionally.
	assert.Equal(t, int32(-120), d.Smooth(-120, at(200*time.Millisecond)))
	assert.Equal(t, int32(-1), d.lastDirection)
	assert.True(t, d.debounceStart.IsZero())
}

func TestIdleGapResetClearsSuppression(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))
	assert.Equal(t, int32(0), d.Smooth(-10, at(20*time.Millisecond)))
	assert.False(t, d.debounceStart.IsZero())

	// Long pause: suppression state is forgotten along with the gesture.
	assert.Equal(t, int32(-10), d.Smooth(-10, at(400*time.Millisecond)))
	assert.True(t, d.debounceStart.IsZero())
}

func TestMonotoneDirectionPassesThrough(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	for i := 0; i < 10; i++ {
		now := at(time.Duration(i) * 20 * time.Millisecond)
		assert.Equal(t, int32(120), d.Smooth(120, now), "event %d", i)
	}
}

func TestJitterSuppression(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))
	// Reversal 20ms after the previous event is mechanical bounce.
	assert.Equal(t, int32(0), d.Smooth(-10, at(20*time.Millisecond)))
	// The original direction still wins: same-direction events keep passing.
	assert.Equal(t, int32(120), d.Smooth(120, at(40*time.Millisecond)))
}

func TestSuppressedRunHoldsDirection(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))
	for i := 1; i <= 5; i++ {
		now := at(time.Duration(i) * 20 * time.Millisecond)
		assert.Equal(t, int32(0), d.Smooth(-10, now), "reversal %d", i)
	}
	assert.Equal(t, int32(1), d.lastDirection)
}

func TestTimeoutEscape(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))

	// Reversals every 20ms; the first one starts the suppression clock.
	now := 20 * time.Millisecond
	for ; now <= 320*time.Millisecond; now += 20 * time.Millisecond {
		assert.Equal(t, int32(0), d.Smooth(-10, at(now)), "at %v", now)
	}

	// 340ms: more than 300ms since suppression started at 20ms, so the
	// reversal is treated as deliberate.
	assert.Equal(t, int32(-10), d.Smooth(-10, at(now)))
	assert.Equal(t, int32(-1), d.lastDirection)
}

func TestMagnitudeFloor(t *testing.T) {
	// debounceTime above debounceTimeout so a slow reversal stays inside the
	// gesture but past the bounce window.
	d := NewDebouncer(500*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))

	// 300ms gap, small magnitude: still jitter, direction unchanged.
	assert.Equal(t, int32(0), d.Smooth(-250, at(300*time.Millisecond)))
	assert.Equal(t, int32(1), d.lastDirection)

	// Same gap, large magnitude: deliberate direction change.
	assert.Equal(t, int32(-400), d.Smooth(-400, at(600*time.Millisecond)))
	assert.Equal(t, int32(-1), d.lastDirection)
}

func TestZeroValueWithinGesture(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	d.Smooth(120, at(0))
	assert.Equal(t, int32(0), d.Smooth(0, at(20*time.Millisecond)))
	// Direction survives zero-value events.
	assert.Equal(t, int32(1), d.lastDirection)
}

// TestSmoothTrace walks the documented four-event scenario end to end.
func TestSmoothTrace(t *testing.T) {
	d := NewDebouncer(50*time.Millisecond, 300*time.Millisecond)

	steps := []struct {
		value int32
		atMs  int
		want  int32
	}{
		{120, 0, 120},   // new gesture
		{-15, 10, 0},    // bounce 10ms after previous event
		{-15, 40, 0},    // still bouncing, 30ms into suppression
		{500, 500, 500}, // 460ms idle gap opens a new gesture
	}
	for i, s := range steps {
		got := d.Smooth(s.value, at(time.Duration(s.atMs)*time.Millisecond))
		assert.Equal(t, s.want, got, "step %d (value=%d at %dms)", i, s.value, s.atMs)
	}
}
