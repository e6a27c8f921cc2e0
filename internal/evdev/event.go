// Package evdev provides access to Linux input devices: reading and
// exclusively grabbing a physical device, and emitting events through a
// synthetic uinput device.
package evdev

import "time"

// Event is a single decoded input event
type Event struct {
	// Time is the kernel timestamp of the event (zero for synthesized events;
	// the kernel stamps them on write)
	Time time.Time

	// Type is the event type (EV_SYN, EV_KEY, EV_REL, ...)
	Type uint16

	// Code is the event code within the type (REL_WHEEL, BTN_LEFT, ...)
	Code uint16

	// Value is the signed event payload
	Value int32
}

// IsSync reports whether the event is a SYN_REPORT cycle boundary.
func (e Event) IsSync() bool {
	return e.Type == EV_SYN && e.Code == SYN_REPORT
}

// IsWheel reports whether the event is a scroll-wheel axis event of either
// resolution.
func (e Event) IsWheel() bool {
	if e.Type != EV_REL {
		return false
	}
	switch e.Code {
	case REL_WHEEL, REL_WHEEL_HI_RES, REL_HWHEEL, REL_HWHEEL_HI_RES:
		return true
	}
	return false
}
