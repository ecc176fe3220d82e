package display

import (
	"image"
	"testing"

	"pagevision/internal/frame"
	"pagevision/internal/ocr"
)

func TestOverlayForHidesBoxes(t *testing.T) {
	o := frame.Overlay{
		Words:       []ocr.Word{{Text: "page", Confidence: 91, Bounds: image.Rect(0, 0, 10, 10)}},
		CurrentText: "page",
	}
	if got := overlayFor(o, true); len(got.Words) != 1 {
		t.Fatalf("expected words to be kept, got %d", len(got.Words))
	}
	hidden := overlayFor(o, false)
	if len(hidden.Words) != 0 || hidden.CurrentText != "page" {
		t.Fatalf("unexpected overlay: %#v", hidden)
	}
	if len(o.Words) != 1 {
		t.Fatal("overlayFor must not mutate its input")
	}
}

func TestOpenWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	if _, err := Open(Options{Name: "test"}); err != ErrNoDisplay {
		t.Fatalf("Open error = %v, want ErrNoDisplay", err)
	}
	var w *Window
	if err := w.Close(); err != nil {
		t.Fatalf("Close on nil window: %v", err)
	}
}
