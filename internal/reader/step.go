package reader

import (
	"context"
	"log/slog"

	"pagevision/internal/controls"
	"pagevision/internal/frame"
	"pagevision/internal/history"
	"pagevision/internal/logging"
	"pagevision/internal/ocr"
	"pagevision/internal/textfilter"
	"pagevision/internal/textutil"
)

const logTextLimit = 80

// step processes one captured frame and renders the preview. It reports
// whether the user asked to quit from the preview window.
func (r *Reader) step(ctx context.Context, f frame.Frame) bool {
	r.summary.Frames++
	if r.summary.Frames%r.cfg.OCR.SampleInterval == 0 {
		r.sample(ctx, f)
	}
	return r.render(ctx, f)
}

// sample runs detection, the density gate, OCR, and the text filter on f.
func (r *Reader) sample(ctx context.Context, f frame.Frame) {
	r.summary.Sampled++
	logger := r.logger.With(logging.Frame(r.summary.Frames))

	detection, err := r.deps.Analyzer.Detect(f)
	if err != nil {
		logging.WarnWithContext(logger, "page detection failed", "detect_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "frame treated as having no page"),
		)
		detection = frame.Detection{}
	}
	r.detection = detection
	if !detection.Found {
		r.summary.NoDocument++
	}
	if r.filter.ObserveDocument(detection.Found) {
		logger.Debug("no page in view; stability history cleared",
			logging.Int("frames_without_document", r.filter.FramesWithoutDocument()),
		)
	}

	prepared, err := r.deps.Analyzer.Prepare(f, r.showPrepared && r.deps.Display != nil)
	if err != nil {
		logging.WarnWithContext(logger, "preprocessing failed", "preprocess_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "frame skipped"),
		)
		return
	}
	r.setView(prepared.View)
	prepared.View = nil

	if !r.densityOK(prepared.Density) {
		r.summary.DensityRejected++
		r.words = nil
		logger.Debug("text density out of range",
			logging.String(logging.FieldDecisionStage, "density"),
			logging.Float64("density", prepared.Density),
		)
		return
	}

	result, err := r.deps.OCR.Recognize(ctx, ocr.Input{
		Image:       prepared.PNG,
		Languages:   r.languages,
		PageSegMode: r.cfg.OCR.PageSegMode,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.summary.OCRErrors++
		logging.WarnWithContext(logger, "ocr failed", "ocr_failed",
			logging.Error(err),
			logging.String(logging.FieldEngine, r.deps.OCR.Name()),
			logging.String(logging.FieldImpact, "frame treated as containing no text"),
		)
		result = ocr.Result{}
	}
	r.words = result.FilterWords(r.cfg.OCR.Confidence)

	decision := r.filter.Evaluate(ocr.CleanText(result.Text))
	r.count(decision.Stage)
	if !decision.Accepted() {
		logger.Debug("text rejected", logging.Args(logging.DecisionAttrs(string(decision.Stage), textutil.Truncate(decision.Text, logTextLimit))...)...)
		return
	}
	r.accept(ctx, logger, decision.Text, result.Confidence)
}

func (r *Reader) densityOK(density float64) bool {
	return density > r.cfg.Vision.MinDensity && density < r.cfg.Vision.MaxDensity
}

func (r *Reader) count(stage textfilter.Stage) {
	switch stage {
	case textfilter.StageNoise:
		r.summary.Noise++
	case textfilter.StageUnstable:
		r.summary.Unstable++
	case textfilter.StageDuplicate:
		r.summary.Duplicate++
	case textfilter.StageAccepted:
		r.summary.Accepted++
	}
}

// accept makes text current, then speaks, saves, and records it as configured.
func (r *Reader) accept(ctx context.Context, logger *slog.Logger, text string, confidence float64) {
	r.current = text
	r.currentEntry = 0

	attrs := logging.DecisionAttrs(string(textfilter.StageAccepted), textutil.Truncate(text, logTextLimit))
	attrs = append(attrs,
		logging.String(logging.FieldEventType, "text_accepted"),
		logging.Float64("confidence", confidence),
		logging.Int("words", textutil.CountWords(text, 1)),
	)
	logger.Info("new text accepted", logging.Args(attrs...)...)

	spoken := false
	if r.autoSpeak && r.deps.Speaker != nil {
		spoken = r.deps.Speaker.Speak(text)
		if spoken {
			r.summary.Spoken++
		}
	}

	var savedPath string
	if r.cfg.Output.AutoSave && r.deps.Saver != nil {
		savedPath = r.autoSave(logger, text)
	}

	if r.deps.History == nil {
		return
	}
	entry, err := r.deps.History.Record(ctx, history.Entry{
		SessionID:  r.sessionID,
		Text:       text,
		Confidence: confidence,
		Spoken:     spoken,
		SavedPath:  savedPath,
		DetectedAt: r.deps.Now(),
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record passage", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "passage missing from history"),
		)
		return
	}
	r.currentEntry = entry.ID
	logger.Debug("passage recorded", logging.Int64("entry_id", entry.ID))
}

func (r *Reader) autoSave(logger *slog.Logger, text string) string {
	var (
		path string
		err  error
	)
	if r.cfg.Output.Continuous {
		path, err = r.deps.Saver.Append(text, "")
	} else {
		path, err = r.deps.Saver.Save(text, "")
	}
	if err != nil {
		logging.WarnWithContext(logger, "failed to save text", "save_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that output_dir is writable"),
		)
		return ""
	}
	r.summary.Saved++
	logger.Debug("text saved", logging.String("path", path))
	return path
}

// render shows the frame (or the preprocessed view) with the overlay and
// handles any key pressed in the preview window.
func (r *Reader) render(ctx context.Context, f frame.Frame) bool {
	if r.deps.Display == nil {
		return false
	}
	target := f
	if r.showPrepared && r.view != nil {
		target = r.view
	}
	overlay := frame.Overlay{
		Detection:      r.detection,
		Words:          r.words,
		ShowConfidence: r.cfg.Display.ShowConfidence,
		DocumentFound:  r.detection.Found,
		AutoSpeak:      r.autoSpeak,
		Language:       r.language,
		CurrentText:    r.current,
		Speaking:       r.deps.Speaker != nil && r.deps.Speaker.Busy(),
	}
	if err := r.deps.Display.Show(target, overlay); err != nil {
		r.logger.Debug("preview render failed", logging.Error(err))
	}
	action := r.deps.Display.PollAction()
	if action == controls.ActionNone {
		return false
	}
	return r.handleAction(ctx, action)
}
