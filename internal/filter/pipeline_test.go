package filter

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ITJesse/mouse-smoother/internal/evdev"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testParams() Params {
	return Params{
		DebounceTime:    50 * time.Millisecond,
		HDebounceTime:   50 * time.Millisecond,
		DebounceTimeout: 300 * time.Millisecond,
	}
}

func rel(code uint16, value int32) evdev.Event {
	return evdev.Event{Type: evdev.EV_REL, Code: code, Value: value}
}

func key(code uint16, value int32) evdev.Event {
	return evdev.Event{Type: evdev.EV_KEY, Code: code, Value: value}
}

func syn() evdev.Event {
	return evdev.Event{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
}

func TestGrouperPushFlush(t *testing.T) {
	var g Grouper

	g.Push(rel(evdev.REL_X, 3))
	g.Push(rel(evdev.REL_WHEEL, 1))
	assert.Equal(t, 2, g.Len())

	batch := g.Flush()
	assert.Len(t, batch, 2)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Flush())
}

func TestExtractSynthesizesHiRes(t *testing.T) {
	ex := Extract([]evdev.Event{rel(evdev.REL_WHEEL, -2)})

	assert.True(t, ex.HasWheel)
	assert.Equal(t, WheelSample{Standard: -2, HiRes: -240}, ex.Vertical)
	assert.False(t, ex.Horizontal.Active())
}

func TestExtractKeepsHiResStandalone(t *testing.T) {
	ex := Extract([]evdev.Event{rel(evdev.REL_WHEEL_HI_RES, 30)})

	// No legacy event in the batch: standard stays 0 and is reconstructed
	// from the filtered value later.
	assert.Equal(t, WheelSample{Standard: 0, HiRes: 30}, ex.Vertical)
}

func TestExtractLastWriteWins(t *testing.T) {
	ex := Extract([]evdev.Event{
		rel(evdev.REL_WHEEL, 1),
		rel(evdev.REL_WHEEL, -1),
	})

	assert.Equal(t, int32(-1), ex.Vertical.Standard)
}

func TestExtractSeparatesPassthrough(t *testing.T) {
	batch := []evdev.Event{
		key(evdev.BTN_LEFT, 1),
		rel(evdev.REL_X, 5),
		rel(evdev.REL_HWHEEL, 1),
		rel(evdev.REL_Y, -2),
	}
	ex := Extract(batch)

	want := []evdev.Event{key(evdev.BTN_LEFT, 1), rel(evdev.REL_X, 5), rel(evdev.REL_Y, -2)}
	if diff := cmp.Diff(want, ex.Passthrough); diff != "" {
		t.Errorf("passthrough mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int32(120), ex.Horizontal.HiRes)
}

func TestPipelineBuffersUntilSync(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	assert.Nil(t, p.Process(rel(evdev.REL_X, 1), at(0)))
	assert.Nil(t, p.Process(rel(evdev.REL_WHEEL, 1), at(0)))
}

func TestPipelineEmptyCycleForwardsMarker(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	out := p.Process(syn(), at(0))
	require.Len(t, out, 1)
	assert.True(t, out[0].IsSync())
}

func TestPipelineReconstructsWheel(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	p.Process(rel(evdev.REL_WHEEL_HI_RES, 360), at(0))
	out := p.Process(syn(), at(0))

	want := []evdev.Event{
		rel(evdev.REL_WHEEL, 3),
		rel(evdev.REL_WHEEL_HI_RES, 360),
		syn(),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineSubNotchEmitsHiResOnly(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	p.Process(rel(evdev.REL_WHEEL_HI_RES, 50), at(0))
	out := p.Process(syn(), at(0))

	want := []evdev.Event{rel(evdev.REL_WHEEL_HI_RES, 50), syn()}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelinePassthroughSurvivesSuppression(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	// Establish an upward gesture, then bounce downward 20ms later in a
	// cycle that also carries pointer motion.
	p.Process(rel(evdev.REL_WHEEL_HI_RES, 120), at(0))
	p.Process(syn(), at(0))

	p.Process(rel(evdev.REL_X, 7), at(20*time.Millisecond))
	p.Process(rel(evdev.REL_WHEEL_HI_RES, -10), at(20*time.Millisecond))
	out := p.Process(syn(), at(20*time.Millisecond))

	want := []evdev.Event{rel(evdev.REL_X, 7), syn()}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineAxesAreIndependent(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	// Vertical scrolls up; a horizontal event in the same cycle is a fresh
	// gesture for its own debouncer and must pass.
	p.Process(rel(evdev.REL_WHEEL_HI_RES, 120), at(0))
	p.Process(rel(evdev.REL_HWHEEL_HI_RES, -120), at(0))
	out := p.Process(syn(), at(0))

	want := []evdev.Event{
		rel(evdev.REL_WHEEL, 1),
		rel(evdev.REL_WHEEL_HI_RES, 120),
		rel(evdev.REL_HWHEEL, -1),
		rel(evdev.REL_HWHEEL_HI_RES, -120),
		syn(),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPipelineDecisionHook(t *testing.T) {
	p := NewPipeline(testParams(), testLogger())

	var decisions []Decision
	p.SetDecisionHook(func(d Decision) { decisions = append(decisions, d) })

	p.Process(rel(evdev.REL_WHEEL_HI_RES, 120), at(0))
	p.Process(syn(), at(0))
	p.Process(rel(evdev.REL_WHEEL_HI_RES, -10), at(20*time.Millisecond))
	p.Process(syn(), at(20*time.Millisecond))

	require.Len(t, decisions, 2)
	assert.Equal(t, AxisVertical, decisions[0].Axis)
	assert.False(t, decisions[0].Suppressed)
	assert.True(t, decisions[1].Suppressed)
	assert.Equal(t, int32(-10), decisions[1].Raw)
	assert.Equal(t, int32(0), decisions[1].Filtered)
}
