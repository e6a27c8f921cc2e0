package evdev

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrNoEvent is returned by NextEvent when the device currently has nothing
// to read. It is a transient condition, not a failure.
var ErrNoEvent = errors.New("no event available")

// eventSize is sizeof(struct input_event) on 64-bit kernels: a 16-byte
// timeval followed by type, code and value.
const eventSize = 24

// Device is an opened physical input device.
type Device struct {
	fd      int
	path    string
	name    string
	grabbed bool
	buf     [eventSize]byte
}

// Open opens an input device node in non-blocking mode.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	name, err := deviceName(fd)
	if err != nil {
		name = "Unknown Mouse"
	}

	return &Device{fd: fd, path: path, name: name}, nil
}

// Path returns the device node path.
func (d *Device) Path() string { return d.path }

// Name returns the kernel-reported device name.
func (d *Device) Name() string { return d.name }

// Grab takes exclusive ownership of the device; no other reader receives
// its events until Release or Close.
func (d *Device) Grab() error {
	if err := unix.IoctlSetInt(d.fd, eviocgrab(), 1); err != nil {
		return fmt.Errorf("grab %s: %w", d.path, err)
	}
	d.grabbed = true
	return nil
}

// Release gives up the exclusive grab.
func (d *Device) Release() error {
	if !d.grabbed {
		return nil
	}
	d.grabbed = false
	if err := unix.IoctlSetInt(d.fd, eviocgrab(), 0); err != nil {
		return fmt.Errorf("release %s: %w", d.path, err)
	}
	return nil
}

// NextEvent reads one event without blocking. ErrNoEvent means nothing is
// ready yet; any other error is fatal for the session.
func (d *Device) NextEvent() (Event, error) {
	n, err := unix.Read(d.fd, d.buf[:])
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return Event{}, ErrNoEvent
	}
	if err != nil {
		return Event{}, fmt.Errorf("read %s: %w", d.path, err)
	}
	if n != eventSize {
		return Event{}, fmt.Errorf("read %s: short event (%d bytes)", d.path, n)
	}

	sec := int64(binary.LittleEndian.Uint64(d.buf[0:8]))
	usec := int64(binary.LittleEndian.Uint64(d.buf[8:16]))
	return Event{
		Time:  time.Unix(sec, usec*1000),
		Type:  binary.LittleEndian.Uint16(d.buf[16:18]),
		Code:  binary.LittleEndian.Uint16(d.buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(d.buf[20:24])),
	}, nil
}

// Close releases the grab, if held, and closes the device.
func (d *Device) Close() error {
	if d.fd < 0 {
		return nil
	}
	releaseErr := d.Release()
	closeErr := unix.Close(d.fd)
	d.fd = -1
	if releaseErr != nil {
		return releaseErr
	}
	return closeErr
}

func deviceName(fd int) (string, error) {
	var buf [256]byte
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd),
		uintptr(eviocgname(uint32(len(buf)))), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	if i := strings.IndexByte(string(buf[:]), 0); i >= 0 {
		return string(buf[:i]), nil
	}
	return string(buf[:]), nil
}

// hasLeftButton probes the EV_KEY capability bitmap for BTN_LEFT, the
// conventional marker of a mouse-like device.
func hasLeftButton(fd int) bool {
	var bits [KEY_MAX/8 + 1]byte
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd),
		uintptr(eviocgbit(uint32(EV_KEY), uint32(len(bits)))), uintptr(unsafe.Pointer(&bits[0])))
	if errno != 0 {
		return false
	}
	return bits[BTN_LEFT/8]&(1<<(BTN_LEFT%8)) != 0
}

// DeviceInfo describes a discovered input device.
type DeviceInfo struct {
	Path string
	Name string
}

// FindMice enumerates /dev/input/event* nodes that report a left mouse
// button. Nodes that cannot be opened (permissions, races with hotplug) are
// skipped silently.
func FindMice() ([]DeviceInfo, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, fmt.Errorf("scan /dev/input: %w", err)
	}

	var mice []DeviceInfo
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", entry.Name())

		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			continue
		}
		if hasLeftButton(fd) {
			name, err := deviceName(fd)
			if err != nil {
				name = "Unknown Mouse"
			}
			mice = append(mice, DeviceInfo{Path: path, Name: name})
		}
		unix.Close(fd)
	}

	sort.Slice(mice, func(i, j int) bool { return mice[i].Path < mice[j].Path })
	return mice, nil
}
