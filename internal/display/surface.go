// Package display renders annotated frames to a HighGUI window and reads keyboard input.
package display

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handgame/internal/game"
)

// NoKey is returned by WaitKey when nothing was pressed.
const NoKey = -1

// Surface is where annotated frames are shown and keys are read.
type Surface interface {
	Show(frame *gocv.Mat) error
	// WaitKey pumps the UI event loop for up to delay and returns the key
	// pressed, or NoKey.
	WaitKey(delay time.Duration) int
	Close() error
}

// Window is a Surface backed by an OpenCV HighGUI window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show draws frame in the window.
func (w *Window) Show(frame *gocv.Mat) error {
	return w.win.IMShow(*frame)
}

// WaitKey waits at least one millisecond so the window repaints.
func (w *Window) WaitKey(delay time.Duration) int {
	ms := int(delay / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return w.win.WaitKey(ms)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// CommandForKey maps a key code to a game command: q quits, r restarts.
func CommandForKey(key int) game.Command {
	if key == NoKey {
		return game.CommandNone
	}
	switch key & 0xFF {
	case 'q':
		return game.CommandQuit
	case 'r':
		return game.CommandRestart
	default:
		return game.CommandNone
	}
}

// MockSurface is a Surface for tests. It counts shown frames and replays
// scripted keys, one per WaitKey call.
type MockSurface struct {
	keys     []int
	shown    int
	closed   bool
	onShow   func(frame *gocv.Mat)
	showErr  error
	closeErr error
}

// NewMockSurface returns a MockSurface that will press keys in order.
func NewMockSurface(keys ...int) *MockSurface {
	return &MockSurface{keys: keys}
}

// OnShow registers a hook called with every shown frame.
func (m *MockSurface) OnShow(fn func(frame *gocv.Mat)) {
	m.onShow = fn
}

// SetErrors makes every later Show and Close return the given errors.
func (m *MockSurface) SetErrors(show, close error) {
	m.showErr = show
	m.closeErr = close
}

// Show records the frame.
func (m *MockSurface) Show(frame *gocv.Mat) error {
	m.shown++
	if m.onShow != nil {
		m.onShow(frame)
	}
	return m.showErr
}

// WaitKey returns the next scripted key, then NoKey forever.
func (m *MockSurface) WaitKey(time.Duration) int {
	if len(m.keys) == 0 {
		return NoKey
	}
	k := m.keys[0]
	m.keys = m.keys[1:]
	return k
}

// Close marks the surface closed.
func (m *MockSurface) Close() error {
	m.closed = true
	return m.closeErr
}

// Shown returns the number of frames shown.
func (m *MockSurface) Shown() int { return m.shown }

// Closed reports whether Close was called.
func (m *MockSurface) Closed() bool { return m.closed }
