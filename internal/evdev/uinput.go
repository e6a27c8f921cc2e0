package evdev

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	uinputPath        = "/dev/uinput"
	uinputMaxNameSize = 80

	busVirtual = 0x06
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputSetup mirrors struct uinput_setup from linux/uinput.h.
type uinputSetup struct {
	ID           inputID
	Name         [uinputMaxNameSize]byte
	FFEffectsMax uint32
}

// UInput is a synthetic input device registered through /dev/uinput.
type UInput struct {
	fd   int
	name string
	buf  [eventSize]byte
}

// mouseButtons are the button codes the virtual mouse supports.
var mouseButtons = []uint16{
	BTN_LEFT, BTN_RIGHT, BTN_MIDDLE,
	BTN_SIDE, BTN_EXTRA, BTN_FORWARD, BTN_BACK, BTN_TASK,
}

// relAxes are the relative axes the virtual mouse supports, wheel axes in
// both resolutions included.
var relAxes = []uint16{
	REL_X, REL_Y,
	REL_WHEEL, REL_WHEEL_HI_RES,
	REL_HWHEEL, REL_HWHEEL_HI_RES,
}

// CreateVirtualMouse registers a synthetic mouse with the given name. The
// caller must Close it to unregister the device node.
func CreateVirtualMouse(name string) (*UInput, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}

	fail := func(err error) (*UInput, error) {
		unix.Close(fd)
		return nil, err
	}

	for _, ev := range []uint16{EV_KEY, EV_REL, EV_MSC} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit(), int(ev)); err != nil {
			return fail(fmt.Errorf("enable event type %#x: %w", ev, err))
		}
	}
	for _, btn := range mouseButtons {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit(), int(btn)); err != nil {
			return fail(fmt.Errorf("enable button %#x: %w", btn, err))
		}
	}
	for _, axis := range relAxes {
		if err := unix.IoctlSetInt(fd, uiSetRelBit(), int(axis)); err != nil {
			return fail(fmt.Errorf("enable axis %#x: %w", axis, err))
		}
	}
	if err := unix.IoctlSetInt(fd, uiSetMscBit(), int(MSC_SCAN)); err != nil {
		return fail(fmt.Errorf("enable MSC_SCAN: %w", err))
	}

	var setup uinputSetup
	setup.ID = inputID{Bustype: busVirtual, Vendor: 0x1, Product: 0x1, Version: 1}
	copy(setup.Name[:uinputMaxNameSize-1], name)

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd),
		uintptr(uiDevSetup(uint32(unsafe.Sizeof(setup)))),
		uintptr(unsafe.Pointer(&setup))); errno != 0 {
		return fail(fmt.Errorf("uinput setup: %w", errno))
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd),
		uintptr(uiDevCreate()), 0); errno != 0 {
		return fail(fmt.Errorf("uinput create: %w", errno))
	}

	return &UInput{fd: fd, name: name}, nil
}

// Name returns the registered device name.
func (u *UInput) Name() string { return u.name }

// WriteEvent emits one event through the synthetic device. Timestamps are
// written as zero; the kernel stamps events on delivery.
func (u *UInput) WriteEvent(ev Event) error {
	for i := range u.buf {
		u.buf[i] = 0
	}
	binary.LittleEndian.PutUint16(u.buf[16:18], ev.Type)
	binary.LittleEndian.PutUint16(u.buf[18:20], ev.Code)
	binary.LittleEndian.PutUint32(u.buf[20:24], uint32(ev.Value))

	n, err := unix.Write(u.fd, u.buf[:])
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if n != eventSize {
		return fmt.Errorf("write event: short write (%d bytes)", n)
	}
	return nil
}

// Close unregisters and closes the synthetic device.
func (u *UInput) Close() error {
	if u.fd < 0 {
		return nil
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(u.fd), uintptr(uiDevDestroy()), 0)
	closeErr := unix.Close(u.fd)
	u.fd = -1
	if errno != 0 {
		return fmt.Errorf("uinput destroy: %w", errno)
	}
	return closeErr
}
