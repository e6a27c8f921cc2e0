package evdev

// Linux input event types (linux/input-event-codes.h).
const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
	EV_ABS uint16 = 0x03
	EV_MSC uint16 = 0x04
)

// SYN codes.
const (
	SYN_REPORT uint16 = 0x00
)

// Relative axes.
const (
	REL_X             uint16 = 0x00
	REL_Y             uint16 = 0x01
	REL_HWHEEL        uint16 = 0x06
	REL_WHEEL         uint16 = 0x08
	REL_WHEEL_HI_RES  uint16 = 0x0b
	REL_HWHEEL_HI_RES uint16 = 0x0c
)

// Mouse buttons.
const (
	BTN_LEFT    uint16 = 0x110
	BTN_RIGHT   uint16 = 0x111
	BTN_MIDDLE  uint16 = 0x112
	BTN_SIDE    uint16 = 0x113
	BTN_EXTRA   uint16 = 0x114
	BTN_FORWARD uint16 = 0x115
	BTN_BACK    uint16 = 0x116
	BTN_TASK    uint16 = 0x117
)

// Misc codes.
const (
	MSC_SCAN uint16 = 0x04
)

// KEY_MAX bounds the EV_KEY capability bitmap.
const KEY_MAX = 0x2ff
