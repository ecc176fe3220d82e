package reader

import (
	"context"
	"log/slog"
	"time"

	"pagevision/internal/controls"
	"pagevision/internal/logging"
	"pagevision/internal/textutil"
)

const voicesTimeout = 5 * time.Second

// handleAction applies a key command. It reports whether to stop the session.
func (r *Reader) handleAction(ctx context.Context, action controls.Action) bool {
	logger := r.logger.With(logging.String("action", action.String()))
	switch action {
	case controls.ActionQuit:
		logger.Info("quit requested", logging.String(logging.FieldEventType, "quit_requested"))
		return true

	case controls.ActionSpeak:
		if r.current == "" {
			logger.Info("no text detected yet")
			return false
		}
		if r.deps.Speaker == nil {
			logger.Info("speech is disabled")
			return false
		}
		if !r.deps.Speaker.Speak(r.current) {
			logger.Info("speech already in progress")
			return false
		}
		r.summary.Spoken++
		logger.Info("speaking current text", logging.String("text", textutil.Truncate(r.current, logTextLimit)))
		if r.deps.History != nil && r.currentEntry != 0 {
			if err := r.deps.History.MarkSpoken(ctx, r.currentEntry); err != nil {
				logger.Debug("failed to mark passage spoken", logging.Error(err))
			}
		}

	case controls.ActionSave:
		if r.current == "" {
			logger.Info("no text to save")
			return false
		}
		if r.deps.Saver == nil {
			logger.Info("saving is unavailable")
			return false
		}
		path, err := r.deps.Saver.Save(r.current, "")
		if err != nil {
			logging.WarnWithContext(logger, "failed to save text", "save_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that output_dir is writable"),
			)
			return false
		}
		r.summary.Saved++
		logger.Info("text saved", logging.String(logging.FieldEventType, "text_saved"), logging.String("path", path))

	case controls.ActionToggleAutoSpeak:
		if r.deps.Speaker == nil {
			logger.Info("speech is disabled")
			return false
		}
		r.autoSpeak = !r.autoSpeak
		logger.Info("auto-speak "+textutil.Ternary(r.autoSpeak, "enabled", "disabled"),
			logging.Bool("auto_speak", r.autoSpeak))

	case controls.ActionTogglePreprocessed:
		r.showPrepared = !r.showPrepared
		if !r.showPrepared {
			r.setView(nil)
		}
		logger.Info("preprocessed view "+textutil.Ternary(r.showPrepared, "on", "off"),
			logging.Bool("preprocessed_view", r.showPrepared))

	case controls.ActionListVoices:
		r.logVoices(ctx, logger)
	}
	return false
}

func (r *Reader) logVoices(ctx context.Context, logger *slog.Logger) {
	if r.deps.Speaker == nil {
		logger.Info("speech is disabled")
		return
	}
	vctx, cancel := context.WithTimeout(ctx, voicesTimeout)
	defer cancel()
	voices, err := r.deps.Speaker.Voices(vctx)
	if err != nil {
		logging.WarnWithContext(r.logger, "failed to list voices", "voices_failed", logging.Error(err))
		return
	}
	logger.Info("available voices", logging.Int("count", len(voices)))
	for i, v := range voices {
		logger.Info("voice",
			logging.Int("index", i),
			logging.String("name", v.Name),
			logging.String("language", v.Language),
			logging.String("gender", v.Gender),
		)
	}
}
