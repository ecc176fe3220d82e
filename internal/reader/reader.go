package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"pagevision/internal/config"
	"pagevision/internal/frame"
	"pagevision/internal/logging"
	"pagevision/internal/ocr"
	"pagevision/internal/textfilter"
)

// ErrCameraBusy is returned when another process holds the camera lock.
var ErrCameraBusy = errors.New("camera is in use by another pagevision process")

const defaultReconnectPoll = time.Second

// Summary counts what happened during a session.
type Summary struct {
	SessionID       string
	Frames          int
	Sampled         int
	NoDocument      int
	DensityRejected int
	OCRErrors       int
	Noise           int
	Unstable        int
	Duplicate       int
	Accepted        int
	Spoken          int
	Saved           int
	Reconnects      int
	Duration        time.Duration
}

// Reader owns one reading session. It is not safe for concurrent use.
type Reader struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
	filter *textfilter.Filter
	lock   *flock.Flock

	sessionID     string
	language      string
	languages     []string
	reconnectPoll time.Duration

	capture      Capture
	autoSpeak    bool
	showPrepared bool
	current      string
	currentEntry int64
	detection    frame.Detection
	words        []ocr.Word
	view         frame.Frame
	summary      Summary
}

// New validates deps and prepares a session. Nothing is opened until Run.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, errors.New("reader requires a config")
	}
	if deps.OpenCapture == nil || deps.Analyzer == nil || deps.OCR == nil {
		return nil, errors.New("reader requires a capture opener, an analyzer, and an OCR engine")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	filter, err := textfilter.New(cfg.FilterConfig())
	if err != nil {
		return nil, fmt.Errorf("text filter: %w", err)
	}
	filter.WithClock(deps.Now)

	sessionID := uuid.NewString()
	return &Reader{
		cfg:           cfg,
		deps:          deps,
		logger:        logging.WithSessionID(logging.NewComponentLogger(logger, "reader"), sessionID),
		filter:        filter,
		lock:          flock.New(cfg.CameraLockPath()),
		sessionID:     sessionID,
		language:      cfg.OCR.Language,
		languages:     ocr.SplitLanguages(cfg.OCR.Language),
		reconnectPoll: defaultReconnectPoll,
		autoSpeak:     cfg.Speech.Enabled && cfg.Speech.AutoSpeak && deps.Speaker != nil,
		summary:       Summary{SessionID: sessionID},
	}, nil
}

// SessionID identifies this session in logs and history.
func (r *Reader) SessionID() string { return r.sessionID }

// CurrentText returns the most recently accepted text.
func (r *Reader) CurrentText() string { return r.current }

// Run reads frames until ctx is cancelled, the user quits, or the camera
// fails and cannot be reopened. A clean stop returns a nil error.
func (r *Reader) Run(ctx context.Context) (Summary, error) {
	started := r.deps.Now()
	if err := r.cfg.EnsureDirectories(); err != nil {
		return r.summary, fmt.Errorf("ensure directories: %w", err)
	}
	locked, err := r.lock.TryLock()
	if err != nil {
		return r.summary, fmt.Errorf("acquire camera lock: %w", err)
	}
	if !locked {
		return r.summary, fmt.Errorf("%w (lock %s)", ErrCameraBusy, r.lock.Path())
	}

	capture, err := r.deps.OpenCapture()
	if err != nil {
		r.unlock()
		return r.summary, fmt.Errorf("open camera: %w", err)
	}
	r.capture = capture
	r.beginSession(ctx, started)

	r.logger.Info("reading session started",
		logging.String(logging.FieldEventType, "session_started"),
		logging.String("language", r.language),
		logging.Bool("auto_speak", r.autoSpeak),
		logging.Bool("auto_save", r.cfg.Output.AutoSave),
		logging.Bool("preview", r.deps.Display != nil),
		logging.Int("sample_interval", r.cfg.OCR.SampleInterval),
	)

	runErr := r.loop(ctx)
	r.shutdown(ctx)
	r.summary.Duration = r.deps.Now().Sub(started)

	r.logger.Info("reading session finished",
		logging.String(logging.FieldEventType, "session_finished"),
		logging.Int("frames", r.summary.Frames),
		logging.Int("sampled", r.summary.Sampled),
		logging.Int("accepted", r.summary.Accepted),
		logging.Int("spoken", r.summary.Spoken),
		logging.Int("saved", r.summary.Saved),
		logging.Duration("duration", r.summary.Duration),
	)
	return r.summary, runErr
}

func (r *Reader) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if r.drainInputs(ctx) {
			return nil
		}

		f, err := r.capture.Read()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			quit, rerr := r.reconnect(ctx, err)
			if rerr != nil {
				if ctx.Err() != nil {
					return nil
				}
				return rerr
			}
			if quit {
				return nil
			}
			continue
		}

		quit := r.step(ctx, f)
		_ = f.Close()
		if quit {
			return nil
		}
	}
}

// drainInputs handles pending terminal keys and hotplug notices without
// blocking. It reports whether the user asked to quit.
func (r *Reader) drainInputs(ctx context.Context) bool {
	for {
		select {
		case action, ok := <-r.deps.Keys:
			if !ok {
				r.deps.Keys = nil
				continue
			}
			if r.handleAction(ctx, action) {
				return true
			}
		case ev := <-r.deps.Hotplug:
			r.logger.Debug("camera hotplug event while reading",
				logging.String("action", string(ev.Action)),
				logging.String(logging.FieldDevice, ev.Device),
			)
		default:
			return false
		}
	}
}

func (r *Reader) beginSession(ctx context.Context, started time.Time) {
	if r.deps.History == nil {
		return
	}
	if err := r.deps.History.BeginSession(ctx, r.sessionID, r.language, started); err != nil {
		logging.WarnWithContext(r.logger, "failed to record session start", "history_session_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "passages from this session will not be grouped"),
		)
	}
}

func (r *Reader) shutdown(ctx context.Context) {
	r.setView(nil)
	if r.deps.Speaker != nil {
		r.deps.Speaker.Stop()
	}
	if r.deps.Display != nil {
		if err := r.deps.Display.Close(); err != nil {
			r.logger.Debug("preview close failed", logging.Error(err))
		}
	}
	if r.capture != nil {
		if err := r.capture.Close(); err != nil {
			r.logger.Debug("camera close failed", logging.Error(err))
		}
		r.capture = nil
	}
	if r.deps.History != nil {
		if err := r.deps.History.EndSession(context.WithoutCancel(ctx), r.sessionID, r.deps.Now()); err != nil {
			r.logger.Debug("failed to record session end", logging.Error(err))
		}
	}
	r.unlock()
}

func (r *Reader) unlock() {
	if err := r.lock.Unlock(); err != nil {
		logging.WarnWithContext(r.logger, "failed to release camera lock", "camera_unlock_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+r.lock.Path()+" if no pagevision process is running"),
		)
	}
}

// setView replaces the retained preprocessed preview frame.
func (r *Reader) setView(view frame.Frame) {
	if r.view != nil {
		_ = r.view.Close()
	}
	r.view = view
}
