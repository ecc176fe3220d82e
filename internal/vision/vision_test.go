package vision

import (
	"image"
	"image/color"
	"math"
	"testing"

	"gocv.io/x/gocv"

	"pagevision/internal/camera"
	"pagevision/internal/frame"
	"pagevision/internal/ocr"
)

func blankFrame(rows, cols int) gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return m
}

func TestTextDensity(t *testing.T) {
	white := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8U)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 0, 0, 0))
	if got := TextDensity(white); got != 0 {
		t.Fatalf("TextDensity(white) = %v, want 0", got)
	}

	gocv.Rectangle(&white, image.Rect(0, 0, 5, 10), color.RGBA{}, -1)
	if got := TextDensity(white); math.Abs(got-0.5) > 0.01 {
		t.Fatalf("TextDensity(half dark) = %v, want 0.5", got)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if got := TextDensity(empty); got != 0 {
		t.Fatalf("TextDensity(empty) = %v, want 0", got)
	}
}

func TestDetectDocumentFindsPage(t *testing.T) {
	src := blankFrame(720, 1280)
	defer src.Close()
	gocv.Rectangle(&src, image.Rect(300, 150, 900, 600), color.RGBA{R: 255, G: 255, B: 255}, -1)

	det := DetectDocument(src, Options{MinContourArea: 50000, MaxContourRatio: 0.9})
	if !det.Found {
		t.Fatal("expected page outline to be detected")
	}
	if det.Area < 50000 || len(det.Contour) < 4 {
		t.Fatalf("unexpected detection: area=%v corners=%d", det.Area, len(det.Contour))
	}
}

func TestDetectDocumentRejectsSmallAndEmpty(t *testing.T) {
	src := blankFrame(720, 1280)
	defer src.Close()
	if det := DetectDocument(src, Options{MinContourArea: 50000, MaxContourRatio: 0.9}); det.Found {
		t.Fatal("blank frame should not contain a page")
	}

	gocv.Rectangle(&src, image.Rect(10, 10, 60, 60), color.RGBA{R: 255, G: 255, B: 255}, -1)
	if det := DetectDocument(src, Options{MinContourArea: 50000, MaxContourRatio: 0.9}); det.Found {
		t.Fatal("small rectangle should be rejected")
	}
}

func TestAnalyzerPrepare(t *testing.T) {
	src := blankFrame(240, 320)
	src.SetTo(gocv.NewScalar(255, 255, 255, 0))
	gocv.PutText(&src, "PAGE TEXT", image.Pt(20, 120), gocv.FontHersheySimplex, 1.5, color.RGBA{}, 3)
	f := camera.Wrap(src)
	defer f.Close()

	a := NewAnalyzer(Options{MinContourArea: 50000, MaxContourRatio: 0.9, EnableDeskew: true})
	prepared, err := a.Prepare(f, true)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer prepared.Close()
	if prepared.Density <= 0 || prepared.Density >= 0.7 {
		t.Fatalf("density %v outside expected text range", prepared.Density)
	}
	if len(prepared.PNG) < 8 || string(prepared.PNG[1:4]) != "PNG" {
		t.Fatal("expected PNG payload")
	}
	if prepared.View == nil || prepared.View.Size() != image.Pt(320, 240) {
		t.Fatalf("unexpected preview view: %v", prepared.View)
	}
}

type foreignFrame struct{}

func (foreignFrame) Size() image.Point { return image.Point{} }
func (foreignFrame) Close() error      { return nil }

func TestAnalyzerRejectsForeignFrames(t *testing.T) {
	a := NewAnalyzer(Options{})
	if _, err := a.Detect(foreignFrame{}); err == nil {
		t.Fatal("expected error for non-OpenCV frame")
	}
	if _, err := a.Prepare(foreignFrame{}, false); err == nil {
		t.Fatal("expected error for non-OpenCV frame")
	}
}

func TestDrawOverlayKeepsGeometry(t *testing.T) {
	dst := blankFrame(720, 1280)
	defer dst.Close()
	DrawOverlay(&dst, frame.Overlay{
		Detection:      frame.Detection{Found: true, Contour: []image.Point{{100, 100}, {600, 100}, {600, 500}, {100, 500}}},
		Words:          []ocr.Word{{Text: "hello", Confidence: 88, Bounds: image.Rect(120, 120, 200, 150)}},
		ShowConfidence: true,
		DocumentFound:  true,
		Language:       "eng",
		CurrentText:    "hello world",
	})
	if dst.Rows() != 720 || dst.Cols() != 1280 {
		t.Fatalf("overlay changed geometry to %dx%d", dst.Cols(), dst.Rows())
	}
	gray := toGray(dst)
	defer gray.Close()
	if gocv.CountNonZero(gray) == 0 {
		t.Fatal("expected overlay to draw something")
	}
}
