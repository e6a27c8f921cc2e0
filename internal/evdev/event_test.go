package evdev

import "testing"

// TestIsSync verifies SYN_REPORT detection
func TestIsSync(t *testing.T) {
	ev := Event{Type: EV_SYN, Code: SYN_REPORT}
	if !ev.IsSync() {
		t.Error("Expected SYN_REPORT to be a sync marker")
	}

	ev = Event{Type: EV_REL, Code: REL_WHEEL, Value: 1}
	if ev.IsSync() {
		t.Error("Expected REL_WHEEL not to be a sync marker")
	}
}

// TestIsWheel verifies wheel axis detection for both resolutions
func TestIsWheel(t *testing.T) {
	wheels := []uint16{REL_WHEEL, REL_WHEEL_HI_RES, REL_HWHEEL, REL_HWHEEL_HI_RES}
	for _, code := range wheels {
		ev := Event{Type: EV_REL, Code: code, Value: 1}
		if !ev.IsWheel() {
			t.Errorf("Expected code %#x to be a wheel event", code)
		}
	}

	ev := Event{Type: EV_REL, Code: REL_X, Value: 1}
	if ev.IsWheel() {
		t.Error("Expected REL_X not to be a wheel event")
	}

	// Wheel codes outside EV_REL are not wheel events
	ev = Event{Type: EV_KEY, Code: REL_WHEEL, Value: 1}
	if ev.IsWheel() {
		t.Error("Expected EV_KEY event not to be a wheel event")
	}
}
