package ocr

import (
	"context"
	"image"
	"strings"
)

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// Image is a PNG-encoded payload.
	Image []byte
	// Languages are Tesseract language codes such as "eng" or "nep". Empty
	// keeps the engine's current language.
	Languages []string
	// PageSegMode overrides the engine's page segmentation mode when non-zero.
	PageSegMode int
	// Variables pass engine-specific knobs through unchanged.
	Variables map[string]string
}

// Word is a single recognized token with its location in the input image.
type Word struct {
	Text string
	// Confidence is reported on the engine's 0-100 scale.
	Confidence float64
	Bounds     image.Rectangle
}

// Result captures OCR output for a single input image.
type Result struct {
	Text       string
	Words      []Word
	Confidence float64
}

// FilterWords returns the words whose confidence is above minConfidence and
// whose text is not blank.
func (r Result) FilterWords(minConfidence float64) []Word {
	out := make([]Word, 0, len(r.Words))
	for _, w := range r.Words {
		if w.Confidence <= minConfidence {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		w.Text = text
		out = append(out, w)
	}
	return out
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
	Close() error
}

// SplitLanguages turns an "eng+nep" style setting into a language list.
// Commas and spaces are accepted as separators too.
func SplitLanguages(value string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(value, func(r rune) bool { return r == '+' || r == ',' || r == ' ' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
