package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	"pagevision/internal/camera"
	"pagevision/internal/frame"
)

// Analyzer adapts the OpenCV routines to the reader's frame interfaces.
type Analyzer struct {
	opts Options
}

// NewAnalyzer returns an analyzer using opts.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Detect reports whether f contains a page outline.
func (a *Analyzer) Detect(f frame.Frame) (frame.Detection, error) {
	m, err := matOf(f)
	if err != nil {
		return frame.Detection{}, err
	}
	return DetectDocument(*m, a.opts), nil
}

// Prepare binarizes f, measures its text density, and encodes it for OCR.
// When withView is set the binarized image is returned for the preview.
func (a *Analyzer) Prepare(f frame.Frame, withView bool) (frame.Prepared, error) {
	m, err := matOf(f)
	if err != nil {
		return frame.Prepared{}, err
	}

	binary := Preprocess(*m)
	if a.opts.EnableDenoise {
		denoised := Denoise(binary)
		binary.Close()
		binary = denoised
	}
	if a.opts.EnableDeskew {
		level := Deskew(binary)
		binary.Close()
		binary = level
	}

	prepared := frame.Prepared{Density: TextDensity(binary)}
	png, err := EncodePNG(binary)
	if err != nil {
		binary.Close()
		return frame.Prepared{}, fmt.Errorf("prepare frame: %w", err)
	}
	prepared.PNG = png
	if withView {
		bgr := gocv.NewMat()
		gocv.CvtColor(binary, &bgr, gocv.ColorGrayToBGR)
		prepared.View = camera.Wrap(bgr)
	}
	binary.Close()
	return prepared, nil
}

// LoadImage reads a still image from disk as a frame.
func LoadImage(path string) (frame.Frame, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		return nil, fmt.Errorf("read image %s: unsupported or missing file", path)
	}
	return camera.Wrap(m), nil
}
