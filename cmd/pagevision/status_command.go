package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pagevision/internal/config"
	"pagevision/internal/history"
	"pagevision/internal/language"
	"pagevision/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the camera, OCR, speech, and storage setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeSection(out, "Configuration", colorize)
			configMsg := ctx.configPath
			configKind := statusOK
			if !ctx.configExists {
				configMsg += " (not found; using defaults)"
				configKind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Config", configKind, configMsg, colorize))
			fmt.Fprintln(out, renderStatusLine("Language", statusInfo, fmt.Sprintf("%s (%s)", cfg.OCR.Language, language.Describe(cfg.OCR.Language)), colorize))
			fmt.Fprintln(out, renderStatusLine("Speech", statusInfo, speechSummary(cfg), colorize))
			fmt.Fprintln(out, renderStatusLine("Auto-save", statusInfo, yesNo(cfg.Output.AutoSave), colorize))

			results := preflight.RunAll(cmd.Context(), cfg)
			writeSection(out, "Checks", colorize)
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, resultKind(r), r.Detail, colorize))
			}

			writeSection(out, "History", colorize)
			writeHistoryStatus(cmd, out, cfg, colorize)

			if failed := preflight.Failed(results); len(failed) > 0 {
				fmt.Fprintf(out, "\n%d required check(s) failed\n", len(failed))
			}
			return nil
		},
	}
}

func writeSection(out io.Writer, title string, colorize bool) {
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
}

func speechSummary(cfg *config.Config) string {
	if !cfg.Speech.Enabled {
		return "disabled"
	}
	mode := "manual"
	if cfg.Speech.AutoSpeak {
		mode = "auto"
	}
	return fmt.Sprintf("%s (%s, %d wpm)", cfg.SpeechBinary(), mode, cfg.Speech.Rate)
}

func writeHistoryStatus(cmd *cobra.Command, out io.Writer, cfg *config.Config, colorize bool) {
	if !cfg.Output.History {
		fmt.Fprintln(out, renderStatusLine("Database", statusInfo, "disabled", colorize))
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Database", statusError, err.Error(), colorize))
		return
	}
	defer store.Close()
	fmt.Fprintln(out, renderStatusLine("Database", statusOK, store.Path(), colorize))

	summary, err := store.Summarize(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Passages", statusError, err.Error(), colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Passages", statusInfo, fmt.Sprint(summary.Passages), colorize))
	fmt.Fprintln(out, renderStatusLine("Sessions", statusInfo, fmt.Sprint(summary.Sessions), colorize))
	if !summary.LastDetected.IsZero() {
		fmt.Fprintln(out, renderStatusLine("Last passage", statusInfo, summary.LastDetected.Format(historyTimeLayout), colorize))
	}
}
