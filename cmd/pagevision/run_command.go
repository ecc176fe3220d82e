package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pagevision/internal/camera"
	"pagevision/internal/config"
	"pagevision/internal/controls"
	"pagevision/internal/devicemon"
	"pagevision/internal/display"
	"pagevision/internal/history"
	"pagevision/internal/language"
	"pagevision/internal/logging"
	"pagevision/internal/ocr"
	"pagevision/internal/ocr/tesseract"
	"pagevision/internal/preflight"
	"pagevision/internal/reader"
	"pagevision/internal/speech"
	"pagevision/internal/transcript"
	"pagevision/internal/vision"
)

type runOptions struct {
	preview   bool
	noPreview bool
	noSpeak   bool
	autoSave  bool
	language  string
	camera    int
	eventLog  bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	opts := runOptions{camera: -1}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a reading session on the camera",
		Long: "Capture frames from the camera, detect a page, recognize its text, " +
			"and speak or save each new passage once it holds steady.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			session := *cfg
			if err := applyRunOptions(&session, opts); err != nil {
				return err
			}
			return runSession(cmd, &session)
		},
	}

	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Show the annotated camera feed in a window")
	cmd.Flags().BoolVar(&opts.noPreview, "no-preview", false, "Run without the preview window")
	cmd.Flags().BoolVar(&opts.noSpeak, "no-speak", false, "Disable text-to-speech for this session")
	cmd.Flags().BoolVar(&opts.autoSave, "auto-save", false, "Save every accepted passage")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "OCR language, e.g. eng or eng+nep")
	cmd.Flags().IntVar(&opts.camera, "camera", -1, "Camera index (overrides camera.index)")
	cmd.Flags().BoolVar(&opts.eventLog, "event-log", false, "Also write the session as JSON lines next to the run log")
	return cmd
}

// applyRunOptions layers command line overrides onto a copy of the loaded
// config and revalidates it.
func applyRunOptions(cfg *config.Config, opts runOptions) error {
	if opts.preview && opts.noPreview {
		return errors.New("--preview and --no-preview are mutually exclusive")
	}
	if opts.preview {
		cfg.Display.Preview = true
	}
	if opts.noPreview {
		cfg.Display.Preview = false
	}
	if opts.noSpeak {
		cfg.Speech.Enabled = false
	}
	if opts.autoSave {
		cfg.Output.AutoSave = true
	}
	if lang := strings.TrimSpace(opts.language); lang != "" {
		cfg.OCR.Language = lang
	}
	if opts.camera >= 0 {
		cfg.Camera.Index = opts.camera
	}
	if opts.eventLog {
		cfg.Logging.EventLog = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func runSession(cmd *cobra.Command, cfg *config.Config) error {
	signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, runLog, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	var eventLog string
	if cfg.Logging.EventLog && runLog != "" {
		eventLog = logging.EventLogPath(runLog)
		mirrored, file, err := logging.WithEventLog(logger, eventLog, cfg.Logging.Level)
		if err != nil {
			return err
		}
		defer file.Close()
		logger = mirrored
	}
	logging.CleanupOldLogs(logger, cfg, runLog, eventLog)

	if err := preflight.Summarize(preflight.RunAll(signalCtx, cfg)); err != nil {
		return err
	}

	deps, cleanup, err := buildReaderDeps(signalCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	rd, err := reader.New(cfg, deps, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "PageVision reading %s (session %s)\n", language.Describe(cfg.OCR.Language), rd.SessionID())
	if deps.Keys != nil || deps.Display != nil {
		printBindings(out)
	} else {
		fmt.Fprintln(out, "Press Ctrl+C to stop.")
	}
	if runLog != "" {
		fmt.Fprintf(out, "Log: %s\n", runLog)
	}
	if eventLog != "" {
		fmt.Fprintf(out, "Events: %s\n", eventLog)
	}

	summary, err := rd.Run(signalCtx)
	fmt.Fprint(out, renderSummary(summary))
	if err != nil {
		logging.ErrorWithContext(logger, "reading session failed", "session_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `pagevision status` to check the camera and dependencies"),
		)
		return err
	}
	return nil
}

// buildReaderDeps opens every collaborator of a session. Optional features
// that fail to start are logged and left out rather than aborting the run.
// The returned cleanup releases what was opened.
func buildReaderDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (reader.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	engine, err := tesseract.New(tesseract.Options{
		Languages:   ocr.SplitLanguages(cfg.OCR.Language),
		PageSegMode: cfg.OCR.PageSegMode,
	})
	if err != nil {
		return reader.Deps{}, cleanup, fmt.Errorf("start OCR engine: %w", err)
	}
	closers = append(closers, func() { _ = engine.Close() })

	writer, err := transcript.NewWriter(cfg.Paths.OutputDir, transcript.WithTimestampNames(cfg.Output.TimestampNames))
	if err != nil {
		cleanup()
		return reader.Deps{}, func() {}, err
	}

	deps := reader.Deps{
		OpenCapture: func() (reader.Capture, error) {
			device, err := camera.Open(camera.Options{
				Index:  cfg.Camera.Index,
				Width:  cfg.Camera.Width,
				Height: cfg.Camera.Height,
				FPS:    cfg.Camera.FPS,
			})
			if err != nil {
				return nil, err
			}
			return device, nil
		},
		Analyzer: vision.NewAnalyzer(vision.Options{
			MinContourArea:  cfg.Vision.MinContourArea,
			MaxContourRatio: cfg.Vision.MaxContourRatio,
			EnableDenoise:   cfg.Vision.EnableDenoise,
			EnableDeskew:    cfg.Vision.EnableDeskew,
		}),
		OCR:   engine,
		Saver: writer,
	}

	if cfg.Speech.Enabled {
		synth, err := speech.NewEspeak(speech.EspeakOptions{
			Command:  cfg.SpeechBinary(),
			Voice:    cfg.Speech.Voice,
			Language: cfg.OCR.Language,
			Rate:     cfg.Speech.Rate,
			Volume:   cfg.Speech.Volume,
		})
		if err != nil {
			logging.WarnWithContext(logger, "speech unavailable", "speech_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "accepted text will not be spoken"),
				logging.String(logging.FieldErrorHint, "install espeak-ng or set speech.command"),
			)
		} else {
			speaker := speech.NewSpeaker(synth, logger)
			deps.Speaker = speaker
			closers = append(closers, speaker.Stop)
		}
	}

	if cfg.Output.History {
		store, err := history.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "accepted passages will not be recorded"),
			)
		} else {
			deps.History = store
			closers = append(closers, func() { _ = store.Close() })
		}
	}

	if cfg.Display.Preview {
		win, err := display.Open(display.Options{Name: cfg.Display.WindowName, ShowBoxes: cfg.Display.ShowBoxes})
		if err != nil {
			logging.WarnWithContext(logger, "preview window unavailable", "preview_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "running without the camera preview"),
				logging.String(logging.FieldErrorHint, "run from a graphical session or pass --no-preview"),
			)
		} else {
			deps.Display = win
		}
	}

	term, err := controls.OpenTerminal(os.Stdin)
	if err != nil {
		logger.Debug("terminal controls unavailable", logging.Error(err))
	} else {
		deps.Keys = term.Actions(ctx)
		closers = append(closers, func() { _ = term.Restore() })
	}

	if cfg.Camera.Reconnect {
		if mon := devicemon.New(cfg.CameraDevicePath(), logger); mon != nil {
			if err := mon.Start(ctx); err == nil && mon.Running() {
				deps.Hotplug = mon.Events()
				closers = append(closers, mon.Stop)
			}
		}
	}

	return deps, cleanup, nil
}

func printBindings(w io.Writer) {
	fmt.Fprintln(w, "Controls:")
	for _, b := range controls.Bindings() {
		fmt.Fprintf(w, "  %-5s %s\n", b.Key, b.Description)
	}
}

func renderSummary(s reader.Summary) string {
	rows := [][]string{
		{"Frames", fmt.Sprint(s.Frames)},
		{"OCR samples", fmt.Sprint(s.Sampled)},
		{"No page", fmt.Sprint(s.NoDocument)},
		{"Density rejected", fmt.Sprint(s.DensityRejected)},
		{"OCR errors", fmt.Sprint(s.OCRErrors)},
		{"Noise", fmt.Sprint(s.Noise)},
		{"Unstable", fmt.Sprint(s.Unstable)},
		{"Duplicates", fmt.Sprint(s.Duplicate)},
		{"Accepted", fmt.Sprint(s.Accepted)},
		{"Spoken", fmt.Sprint(s.Spoken)},
		{"Saved", fmt.Sprint(s.Saved)},
		{"Reconnects", fmt.Sprint(s.Reconnects)},
		{"Duration", s.Duration.Round(time.Second).String()},
	}
	return renderTable([]tableColumn{
		{Header: "Session " + shortID(s.SessionID)},
		{Header: "Count", Align: alignRight},
	}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
