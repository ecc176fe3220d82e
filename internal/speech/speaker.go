package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"pagevision/internal/logging"
	"pagevision/internal/textutil"
)

// Speaker plays utterances in the background, one at a time. Speak and Stop
// may be called from different goroutines.
type Speaker struct {
	engine Engine
	logger *slog.Logger

	busy   atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc

	// mu orders wg.Add in Speak against wg.Wait in Stop.
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewSpeaker wraps engine. A nil logger discards playback errors.
func NewSpeaker(engine Engine, logger *slog.Logger) *Speaker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Speaker{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "speech"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Speak starts playing text in the background. It returns false, dropping
// the request, when text is blank, playback is already in flight, or the
// speaker has been stopped.
func (s *Speaker) Speak(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Debug("speech dropped; playback in progress",
			logging.String(logging.FieldEventType, "speech_dropped"),
			logging.String("text", textutil.Truncate(text, 50)),
		)
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)
		s.play(s.ctx, text)
	}()
	return true
}

// SpeakBlocking plays text and waits for it to finish.
func (s *Speaker) SpeakBlocking(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)
	return s.engine.Speak(ctx, text)
}

func (s *Speaker) play(ctx context.Context, text string) {
	s.logger.Info("speaking",
		logging.String(logging.FieldEventType, "speech_started"),
		logging.String("text", textutil.Truncate(text, 50)),
	)
	if err := s.engine.Speak(ctx, text); err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.WarnWithContext(s.logger, "speech playback failed", "speech_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that espeak-ng runs from a terminal and an audio device is available"),
			logging.String(logging.FieldImpact, "text was not read aloud"),
		)
	}
}

// Busy reports whether playback is in flight.
func (s *Speaker) Busy() bool {
	return s.busy.Load()
}

// Voices lists the engine's voices.
func (s *Speaker) Voices(ctx context.Context) ([]Voice, error) {
	return s.engine.Voices(ctx)
}

// Stop cancels in-flight playback and waits for it to exit. Later calls to
// Speak are dropped.
func (s *Speaker) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}
