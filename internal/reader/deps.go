package reader

import (
	"context"
	"time"

	"pagevision/internal/controls"
	"pagevision/internal/devicemon"
	"pagevision/internal/frame"
	"pagevision/internal/history"
	"pagevision/internal/ocr"
	"pagevision/internal/speech"
)

// Capture yields camera frames.
type Capture interface {
	Read() (frame.Frame, error)
	Close() error
}

// Analyzer finds pages and binarizes frames for OCR.
type Analyzer interface {
	Detect(f frame.Frame) (frame.Detection, error)
	Prepare(f frame.Frame, withView bool) (frame.Prepared, error)
}

// Speaker plays text without blocking the loop.
type Speaker interface {
	Speak(text string) bool
	Busy() bool
	Voices(ctx context.Context) ([]speech.Voice, error)
	Stop()
}

// Display renders the preview and reports keys pressed in it.
type Display interface {
	Show(f frame.Frame, o frame.Overlay) error
	PollAction() controls.Action
	Close() error
}

// Saver writes accepted text to disk.
type Saver interface {
	Save(text, name string) (string, error)
	Append(text, name string) (string, error)
}

// Recorder persists sessions and accepted passages.
type Recorder interface {
	BeginSession(ctx context.Context, id, language string, startedAt time.Time) error
	EndSession(ctx context.Context, id string, endedAt time.Time) error
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
	MarkSpoken(ctx context.Context, id int64) error
}

// Deps are the collaborators of a session. OpenCapture, Analyzer, and OCR
// are required; the rest may be nil to disable the feature.
type Deps struct {
	OpenCapture func() (Capture, error)
	Analyzer    Analyzer
	OCR         ocr.Engine
	Speaker     Speaker
	Display     Display
	Saver       Saver
	History     Recorder
	// Keys carries actions from the terminal.
	Keys <-chan controls.Action
	// Hotplug carries camera add/remove events.
	Hotplug <-chan devicemon.Event
	// Now defaults to time.Now.
	Now func() time.Time
}
