package filter

import "github.com/ITJesse/mouse-smoother/internal/evdev"

// HiResPerNotch is the fixed hardware convention: 120 high-resolution units
// per legacy wheel detent.
const HiResPerNotch = 120

// WheelSample is the per-axis wheel delta of one report cycle in both
// resolutions.
type WheelSample struct {
	Standard int32
	HiRes    int32
}

// Active reports whether the axis saw any wheel movement this cycle.
func (s WheelSample) Active() bool {
	return s.Standard != 0 || s.HiRes != 0
}

// Extraction is the decomposition of one report cycle: the wheel deltas per
// axis and the non-wheel events to pass through unchanged.
type Extraction struct {
	Vertical    WheelSample
	Horizontal  WheelSample
	HasWheel    bool
	Passthrough []evdev.Event
}

// Extract scans a flushed batch. Within one cycle the hardware reports each
// axis/resolution at most once, so a later duplicate overwrites the earlier
// value. When an axis carries only the legacy event, the high-resolution
// delta is synthesized at 120 units per notch; the reverse direction is left
// to reconstruction, which derives the legacy value from the filtered one.
func Extract(batch []evdev.Event) Extraction {
	var ex Extraction

	for _, ev := range batch {
		if !ev.IsWheel() {
			ex.Passthrough = append(ex.Passthrough, ev)
			continue
		}
		ex.HasWheel = true
		switch ev.Code {
		case evdev.REL_WHEEL:
			ex.Vertical.Standard = ev.Value
		case evdev.REL_WHEEL_HI_RES:
			ex.Vertical.HiRes = ev.Value
		case evdev.REL_HWHEEL:
			ex.Horizontal.Standard = ev.Value
		case evdev.REL_HWHEEL_HI_RES:
			ex.Horizontal.HiRes = ev.Value
		}
	}

	if ex.Vertical.Standard != 0 && ex.Vertical.HiRes == 0 {
		ex.Vertical.HiRes = ex.Vertical.Standard * HiResPerNotch
	}
	if ex.Horizontal.Standard != 0 && ex.Horizontal.HiRes == 0 {
		ex.Horizontal.HiRes = ex.Horizontal.Standard * HiResPerNotch
	}

	return ex
}
