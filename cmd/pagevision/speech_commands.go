package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newSayCommand(ctx *commandContext) *cobra.Command {
	var (
		language  string
		overrides speechOverrides
	)

	cmd := &cobra.Command{
		Use:   "say [text...]",
		Short: "Speak text with the configured voice",
		Long:  "Speak the given text, or standard input when no text is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				return errors.New("nothing to say")
			}
			lang := strings.TrimSpace(language)
			if lang == "" {
				lang = cfg.OCR.Language
			}
			return speakText(cmd, ctx, text, lang, overrides)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Language used to pick a voice")
	cmd.Flags().StringVar(&overrides.voice, "voice", "", "Synthesizer voice name")
	cmd.Flags().IntVar(&overrides.rate, "rate", 0, "Speaking rate in words per minute")
	cmd.Flags().Float64Var(&overrides.volume, "volume", 0, "Volume between 0 and 1")
	return cmd
}

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List installed synthesizer voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			synth, err := newSynthesizer(ctx, cfg.OCR.Language, speechOverrides{})
			if err != nil {
				return err
			}
			voices, err := synth.Voices(cmd.Context())
			if err != nil {
				return err
			}

			prefix := strings.ToLower(strings.TrimSpace(language))
			rows := make([][]string, 0, len(voices))
			for _, v := range voices {
				if prefix != "" && !strings.HasPrefix(strings.ToLower(v.Language), prefix) {
					continue
				}
				rows = append(rows, []string{v.Name, v.Language, v.Gender, v.File})
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No voices found")
				return nil
			}
			fmt.Fprint(out, renderTable([]tableColumn{
				{Header: "Name", MaxWidth: 32},
				{Header: "Language"},
				{Header: "Gender"},
				{Header: "File"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Only list voices whose language starts with this prefix")
	return cmd
}
