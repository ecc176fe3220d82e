// Package display shows the annotated camera feed in an OpenCV window and
// turns key presses in that window into control actions.
package display

import (
	"errors"
	"os"

	"gocv.io/x/gocv"

	"pagevision/internal/camera"
	"pagevision/internal/controls"
	"pagevision/internal/frame"
	"pagevision/internal/vision"
)

// ErrNoDisplay is returned when no X11 or Wayland display is available.
var ErrNoDisplay = errors.New("no graphical display available")

// Options configure the preview window.
type Options struct {
	Name      string
	ShowBoxes bool
}

// Window is an open preview window.
type Window struct {
	opts Options
	win  *gocv.Window
}

// Available reports whether a graphical session is reachable.
func Available() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// Open creates the preview window.
func Open(opts Options) (*Window, error) {
	if !Available() {
		return nil, ErrNoDisplay
	}
	return &Window{opts: opts, win: gocv.NewWindow(opts.Name)}, nil
}

// Show draws o on a copy of f and displays it. f is not modified.
func (w *Window) Show(f frame.Frame, o frame.Overlay) error {
	cf, ok := f.(*camera.Frame)
	if !ok {
		return errors.New("display: frame is not an OpenCV frame")
	}
	canvas := cf.Mat().Clone()
	defer canvas.Close()

	vision.DrawOverlay(&canvas, overlayFor(o, w.opts.ShowBoxes))
	w.win.IMShow(canvas)
	return nil
}

// PollAction pumps the window event loop for one millisecond and returns the
// action bound to any key pressed.
func (w *Window) PollAction() controls.Action {
	key := w.win.WaitKey(1)
	if key < 0 {
		return controls.ActionNone
	}
	return controls.ForKey(rune(key & 0xff))
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() error {
	if w == nil || w.win == nil {
		return nil
	}
	err := w.win.Close()
	w.win = nil
	return err
}

func overlayFor(o frame.Overlay, showBoxes bool) frame.Overlay {
	if !showBoxes {
		o.Words = nil
	}
	return o
}
