package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pagevision/internal/ocr"
	"pagevision/internal/ocr/tesseract"
	"pagevision/internal/speech"
	"pagevision/internal/textfilter"
	"pagevision/internal/transcript"
	"pagevision/internal/vision"
)

func newOCRCommand(ctx *commandContext) *cobra.Command {
	var (
		language  string
		save      bool
		speak     bool
		showWords bool
	)

	cmd := &cobra.Command{
		Use:   "ocr <image>",
		Short: "Recognize the text in a still image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lang := strings.TrimSpace(language)
			if lang == "" {
				lang = cfg.OCR.Language
			}

			img, err := vision.LoadImage(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			analyzer := vision.NewAnalyzer(vision.Options{
				MinContourArea:  cfg.Vision.MinContourArea,
				MaxContourRatio: cfg.Vision.MaxContourRatio,
				EnableDenoise:   cfg.Vision.EnableDenoise,
				EnableDeskew:    cfg.Vision.EnableDeskew,
			})
			detection, err := analyzer.Detect(img)
			if err != nil {
				return err
			}
			prepared, err := analyzer.Prepare(img, false)
			if err != nil {
				return err
			}

			engine, err := tesseract.New(tesseract.Options{
				Languages:   ocr.SplitLanguages(lang),
				PageSegMode: cfg.OCR.PageSegMode,
			})
			if err != nil {
				return fmt.Errorf("start OCR engine: %w", err)
			}
			defer engine.Close()

			result, err := engine.Recognize(cmd.Context(), ocr.Input{Image: prepared.PNG})
			if err != nil {
				return err
			}
			text := ocr.CleanText(result.Text)
			words := result.FilterWords(cfg.OCR.Confidence)
			meaningful := textfilter.NewClassifier(cfg.FilterConfig()).IsMeaningful(text)
			densityOK := prepared.Density > cfg.Vision.MinDensity && prepared.Density < cfg.Vision.MaxDensity

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Image", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Page outline", boolKind(detection.Found, statusWarn), yesNo(detection.Found), colorize))
			fmt.Fprintln(out, renderStatusLine("Text density", boolKind(densityOK, statusWarn), fmt.Sprintf("%.3f", prepared.Density), colorize))
			fmt.Fprintln(out, renderStatusLine("Confidence", statusInfo, fmt.Sprintf("%.1f", result.Confidence), colorize))
			fmt.Fprintln(out, renderStatusLine("Meaningful", boolKind(meaningful, statusWarn), yesNo(meaningful), colorize))
			fmt.Fprintln(out)

			if showWords && len(words) > 0 {
				rows := make([][]string, 0, len(words))
				for _, w := range words {
					rows = append(rows, []string{w.Text, fmt.Sprintf("%.0f", w.Confidence)})
				}
				fmt.Fprint(out, renderTable([]tableColumn{
					{Header: "Word", MaxWidth: 40},
					{Header: "Confidence", Align: alignRight},
				}, rows))
				fmt.Fprintln(out)
			}

			if text == "" {
				fmt.Fprintln(out, "No text recognized")
				return nil
			}
			fmt.Fprintln(out, text)

			if save {
				writer, err := transcript.NewWriter(cfg.Paths.OutputDir, transcript.WithTimestampNames(cfg.Output.TimestampNames))
				if err != nil {
					return err
				}
				path, err := writer.Save(text, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nSaved to %s\n", path)
			}
			if speak {
				return speakText(cmd, ctx, text, lang, speechOverrides{})
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "OCR language, e.g. eng or eng+nep")
	cmd.Flags().BoolVar(&save, "save", false, "Save the recognized text to the output directory")
	cmd.Flags().BoolVar(&speak, "speak", false, "Speak the recognized text")
	cmd.Flags().BoolVar(&showWords, "words", false, "List recognized words with their confidence")
	return cmd
}

func boolKind(ok bool, otherwise statusKind) statusKind {
	if ok {
		return statusOK
	}
	return otherwise
}

var errSpeechDisabled = errors.New("speech is disabled; set speech.enabled = true")

// speechOverrides adjust the configured synthesizer for one command.
type speechOverrides struct {
	voice  string
	rate   int
	volume float64
}

func newSynthesizer(ctx *commandContext, language string, o speechOverrides) (*speech.Espeak, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := speech.EspeakOptions{
		Command:  cfg.SpeechBinary(),
		Voice:    cfg.Speech.Voice,
		Language: language,
		Rate:     cfg.Speech.Rate,
		Volume:   cfg.Speech.Volume,
	}
	if v := strings.TrimSpace(o.voice); v != "" {
		opts.Voice = v
	}
	if o.rate > 0 {
		opts.Rate = o.rate
	}
	if o.volume > 0 {
		opts.Volume = o.volume
	}
	return speech.NewEspeak(opts)
}

func speakText(cmd *cobra.Command, ctx *commandContext, text, language string, o speechOverrides) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Speech.Enabled {
		return errSpeechDisabled
	}
	synth, err := newSynthesizer(ctx, language, o)
	if err != nil {
		return err
	}
	speaker := speech.NewSpeaker(synth, ctx.cliLogger(cmd))
	return speaker.SpeakBlocking(cmd.Context(), text)
}
