// Package tesseract implements ocr.Engine on top of libtesseract via gosseract.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"pagevision/internal/ocr"
)

// Options configure the engine at construction.
type Options struct {
	Languages   []string
	PageSegMode int
	Variables   map[string]string
}

// Engine reuses one gosseract client for a whole reading session. The client
// is not goroutine safe, so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	langs  []string
	psm    int
	closed bool
}

// New creates an engine with a fresh client configured from opts.
func New(opts Options) (*Engine, error) {
	client := gosseract.NewClient()
	e := &Engine{client: client}
	if err := e.configure(opts); err != nil {
		client.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) configure(opts Options) error {
	if len(opts.Languages) > 0 {
		if err := e.setLanguage(opts.Languages...); err != nil {
			return err
		}
	}
	if opts.PageSegMode > 0 {
		if err := e.setPageSegMode(opts.PageSegMode); err != nil {
			return err
		}
	}
	for k, v := range opts.Variables {
		if err := e.client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	return nil
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR on a PNG image and returns the raw text plus word boxes.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	if len(in.Image) == 0 {
		return ocr.Result{}, errors.New("recognize: empty image")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ocr.Result{}, errors.New("recognize: engine closed")
	}

	if len(in.Languages) > 0 && !sameLanguages(in.Languages, e.langs) {
		if err := e.setLanguage(in.Languages...); err != nil {
			return ocr.Result{}, err
		}
	}
	if in.PageSegMode > 0 && in.PageSegMode != e.psm {
		if err := e.setPageSegMode(in.PageSegMode); err != nil {
			return ocr.Result{}, err
		}
	}
	for k, v := range in.Variables {
		if err := e.client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	if err := e.client.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	words, avg := e.words()
	return ocr.Result{
		Text:       strings.TrimSpace(text),
		Words:      words,
		Confidence: avg,
	}, nil
}

func (e *Engine) words() ([]ocr.Word, float64) {
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}
	words := make([]ocr.Word, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
		words = append(words, ocr.Word{Text: b.Word, Confidence: b.Confidence, Bounds: b.Box})
	}
	return words, sum / float64(len(words))
}

// SetLanguage switches the recognition language for subsequent calls.
func (e *Engine) SetLanguage(langs ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLanguage(langs...)
}

// Languages returns the languages currently configured.
func (e *Engine) Languages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.langs...)
}

func (e *Engine) setLanguage(langs ...string) error {
	langs = ocr.SplitLanguages(strings.Join(langs, "+"))
	if len(langs) == 0 {
		return errors.New("set language: no language given")
	}
	if err := e.client.SetLanguage(langs...); err != nil {
		return fmt.Errorf("set language %s: %w", strings.Join(langs, "+"), err)
	}
	e.langs = langs
	return nil
}

func (e *Engine) setPageSegMode(mode int) error {
	if err := e.client.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
		return fmt.Errorf("set page segmentation mode %d: %w", mode, err)
	}
	e.psm = mode
	return nil
}

// Close releases the underlying client. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.client.Close()
}

func sameLanguages(a, b []string) bool {
	return slices.Equal(a, b)
}
