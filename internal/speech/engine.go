package speech

import (
	"context"
	"errors"
)

var (
	// ErrEngineUnavailable means the synthesizer binary could not be found.
	ErrEngineUnavailable = errors.New("speech engine unavailable")
	// ErrBusy means another utterance is still playing.
	ErrBusy = errors.New("speech already in progress")
)

// Voice describes one installed synthesizer voice.
type Voice struct {
	Name     string
	Language string
	Gender   string
	File     string
}

// Engine synthesizes speech. Speak blocks until playback finishes or ctx is
// cancelled.
type Engine interface {
	Name() string
	Speak(ctx context.Context, text string) error
	Voices(ctx context.Context) ([]Voice, error)
}
