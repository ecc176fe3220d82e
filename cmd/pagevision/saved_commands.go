package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pagevision/internal/transcript"
)

const savedTimeLayout = "2006-01-02 15:04"

func newSavedCommand(ctx *commandContext) *cobra.Command {
	savedCmd := &cobra.Command{
		Use:   "saved",
		Short: "Browse text files saved to the output directory",
	}

	savedCmd.AddCommand(newSavedListCommand(ctx))
	savedCmd.AddCommand(newSavedShowCommand(ctx))

	return savedCmd
}

func (c *commandContext) transcriptWriter() (*transcript.Writer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return transcript.NewWriter(cfg.Paths.OutputDir, transcript.WithTimestampNames(cfg.Output.TimestampNames))
}

func newSavedListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved files, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := ctx.transcriptWriter()
			if err != nil {
				return err
			}
			entries, err := writer.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No saved files in %s\n", writer.Dir())
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, e.ModTime.Format(savedTimeLayout), formatSize(e.Size)})
			}
			fmt.Fprint(out, renderTable([]tableColumn{
				{Header: "File"},
				{Header: "Modified"},
				{Header: "Size", Align: alignRight},
			}, rows))
			return nil
		},
	}
}

func newSavedShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a saved file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := ctx.transcriptWriter()
			if err != nil {
				return err
			}
			content, err := writer.Read(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, content)
			if !strings.HasSuffix(content, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
