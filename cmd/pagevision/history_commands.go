package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pagevision/internal/history"
	"pagevision/internal/textutil"
)

const (
	historyTimeLayout = "2006-01-02 15:04:05"
	previewWidth      = 60
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect passages accepted in past sessions",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistorySessionsCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		session string
		full    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accepted passages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				var (
					entries []history.Entry
					err     error
				)
				if id := strings.TrimSpace(session); id != "" {
					entries, err = store.ListSession(cmd.Context(), id, limit)
				} else {
					entries, err = store.List(cmd.Context(), limit)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "History is empty")
					return nil
				}
				if full {
					for _, e := range entries {
						fmt.Fprintf(out, "#%d  %s  session %s\n%s\n\n", e.ID, e.DetectedAt.Format(historyTimeLayout), shortID(e.SessionID), e.Text)
					}
					return nil
				}
				fmt.Fprint(out, renderTable([]tableColumn{
					{Header: "ID", Align: alignRight},
					{Header: "Detected"},
					{Header: "Session"},
					{Header: "Conf", Align: alignRight},
					{Header: "Spoken"},
					{Header: "Text", MaxWidth: previewWidth},
				}, buildHistoryRows(entries)))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum passages to show (0 for all)")
	cmd.Flags().StringVar(&session, "session", "", "Only show passages from this session")
	cmd.Flags().BoolVar(&full, "full", false, "Print complete passage text")
	return cmd
}

func buildHistoryRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.DetectedAt.Format(historyTimeLayout),
			shortID(e.SessionID),
			fmt.Sprintf("%.0f", e.Confidence),
			yesNo(e.Spoken),
			textutil.Truncate(strings.Join(strings.Fields(e.Text), " "), previewWidth),
		})
	}
	return rows
}

func newHistorySessionsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List reading sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				sessions, err := store.Sessions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No sessions recorded")
					return nil
				}
				rows := make([][]string, 0, len(sessions))
				for _, s := range sessions {
					rows = append(rows, []string{
						s.ID,
						s.Language,
						s.StartedAt.Format(historyTimeLayout),
						sessionDuration(s),
						strconv.Itoa(s.Passages),
					})
				}
				fmt.Fprint(out, renderTable([]tableColumn{
					{Header: "Session"},
					{Header: "Language"},
					{Header: "Started"},
					{Header: "Duration"},
					{Header: "Passages", Align: alignRight},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to show (0 for all)")
	return cmd
}

func sessionDuration(s history.Session) string {
	if s.Active() {
		return "active"
	}
	return s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded passages and sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d passages from history\n", removed)
				return nil
			})
		},
	}
}
