// Package tray provides the optional system tray menu: a pause/resume
// toggle for the smoothing filter and a quit entry.
package tray

import (
	"github.com/getlantern/systray"
)

// Tray is the session's tray menu. Build it with New, then Run blocks on
// the systray event loop.
type Tray struct {
	title   string
	tooltip string
	onPause func(paused bool)
	onQuit  func()
	paused  bool
	quitCh  chan struct{}

	pauseItem *systray.MenuItem
}

// New creates the tray. onPause is invoked with the new pause state when the
// toggle is clicked; onQuit when the quit entry is chosen.
func New(title, tooltip string, onPause func(bool), onQuit func()) *Tray {
	return &Tray{
		title:   title,
		tooltip: tooltip,
		onPause: onPause,
		onQuit:  onQuit,
		quitCh:  make(chan struct{}),
	}
}

// Run starts the tray event loop (blocks until Stop or quit).
func (t *Tray) Run() {
	systray.Run(t.setup, func() { close(t.quitCh) })
}

// Stop tears the tray down and unblocks Run.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) setup() {
	systray.SetTitle(t.title)
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(placeholderIcon())

	t.pauseItem = systray.AddMenuItem("Pause smoothing", "Pass events through unfiltered")
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Release the device and exit")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.paused = !t.paused
				if t.paused {
					t.pauseItem.Check()
				} else {
					t.pauseItem.Uncheck()
				}
				if t.onPause != nil {
					t.onPause(t.paused)
				}
			case <-quitItem.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			case <-t.quitCh:
				return
			}
		}
	}()
}

// placeholderIcon returns a valid transparent 16x16 32-bit ICO.
func placeholderIcon() []byte {
	icon := make([]byte, 1118)
	// ICO header
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Icon directory: 16x16, 32bpp, data at offset 22
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00,
		0x16, 0x00, 0x00, 0x00,
	})
	// DIB header; pixel and mask data stay zero for transparency
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x20, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
	return icon
}
