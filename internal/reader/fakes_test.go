package reader

import (
	"context"
	"errors"
	"image"
	"sync"

	"pagevision/internal/controls"
	"pagevision/internal/frame"
	"pagevision/internal/ocr"
	"pagevision/internal/speech"
)

type fakeFrame struct {
	closed *int
}

func (f fakeFrame) Size() image.Point { return image.Pt(640, 480) }

func (f fakeFrame) Close() error {
	if f.closed != nil {
		*f.closed++
	}
	return nil
}

var errFakeRead = errors.New("fake camera read failed")

// fakeCapture yields n frames, then runs onExhaust and fails every read.
type fakeCapture struct {
	n         int
	read      int
	closed    bool
	onExhaust func()
	frames    int
}

func (c *fakeCapture) Read() (frame.Frame, error) {
	if c.read >= c.n {
		if c.onExhaust != nil {
			c.onExhaust()
		}
		return nil, errFakeRead
	}
	c.read++
	return fakeFrame{closed: &c.frames}, nil
}

func (c *fakeCapture) Close() error {
	c.closed = true
	return nil
}

type fakeAnalyzer struct {
	found    bool
	density  float64
	detects  int
	prepares int
}

func (a *fakeAnalyzer) Detect(frame.Frame) (frame.Detection, error) {
	a.detects++
	return frame.Detection{Found: a.found}, nil
}

func (a *fakeAnalyzer) Prepare(_ frame.Frame, withView bool) (frame.Prepared, error) {
	a.prepares++
	p := frame.Prepared{Density: a.density, PNG: []byte("png")}
	if withView {
		p.View = fakeFrame{}
	}
	return p, nil
}

// fakeOCR returns texts in order, repeating the last one.
type fakeOCR struct {
	texts []string
	err   error
	calls int
	langs []string
}

func (o *fakeOCR) Name() string { return "fake" }

func (o *fakeOCR) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	o.calls++
	o.langs = in.Languages
	if o.err != nil {
		return ocr.Result{}, o.err
	}
	if len(o.texts) == 0 {
		return ocr.Result{}, nil
	}
	text := o.texts[min(o.calls-1, len(o.texts)-1)]
	return ocr.Result{
		Text:       text,
		Confidence: 88,
		Words:      []ocr.Word{{Text: text, Confidence: 88, Bounds: image.Rect(0, 0, 10, 10)}},
	}, nil
}

func (o *fakeOCR) Close() error { return nil }

type fakeSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	busy    bool
	stopped bool
	voices  []speech.Voice
}

func (s *fakeSpeaker) Speak(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.spoken = append(s.spoken, text)
	return true
}

func (s *fakeSpeaker) Busy() bool { return s.busy }

func (s *fakeSpeaker) Voices(context.Context) ([]speech.Voice, error) { return s.voices, nil }

func (s *fakeSpeaker) Stop() { s.stopped = true }

type fakeSaver struct {
	saved    []string
	appended []string
}

func (s *fakeSaver) Save(text, _ string) (string, error) {
	s.saved = append(s.saved, text)
	return "/tmp/saved.txt", nil
}

func (s *fakeSaver) Append(text, _ string) (string, error) {
	s.appended = append(s.appended, text)
	return "/tmp/continuous.txt", nil
}

// fakeDisplay returns actions[i] after the i-th shown frame.
type fakeDisplay struct {
	shown    int
	overlays []frame.Overlay
	actions  map[int]controls.Action
	closed   bool
}

func (d *fakeDisplay) Show(_ frame.Frame, o frame.Overlay) error {
	d.shown++
	d.overlays = append(d.overlays, o)
	return nil
}

func (d *fakeDisplay) PollAction() controls.Action {
	return d.actions[d.shown]
}

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}
