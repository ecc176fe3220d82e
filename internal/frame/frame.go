// Package frame holds the image-agnostic types exchanged between the capture,
// vision, and reader packages. It does not link OpenCV, so the reader loop and
// its tests can run without cgo collaborators.
package frame

import (
	"image"

	"pagevision/internal/ocr"
)

// Frame is a captured image owned by the caller until Close.
type Frame interface {
	Size() image.Point
	Close() error
}

// Detection reports whether a page outline was found in a frame.
type Detection struct {
	Found   bool
	Contour []image.Point
	Area    float64
}

// Prepared is a frame binarized for OCR.
type Prepared struct {
	// Density is the fraction of dark pixels in the binarized image.
	Density float64
	// PNG is the binarized image encoded for the OCR engine.
	PNG []byte
	// View is the binarized image for the preview window. It may be nil and,
	// when set, must be closed by the caller.
	View Frame
}

// Close releases the preview image, if any.
func (p *Prepared) Close() error {
	if p == nil || p.View == nil {
		return nil
	}
	err := p.View.Close()
	p.View = nil
	return err
}

// Overlay is everything the preview window draws on top of a frame.
type Overlay struct {
	Detection      Detection
	Words          []ocr.Word
	ShowConfidence bool
	DocumentFound  bool
	AutoSpeak      bool
	Language       string
	CurrentText    string
	Speaking       bool
}
