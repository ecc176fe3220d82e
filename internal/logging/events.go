package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EventLogPattern matches the JSON lines files written by WithEventLog.
const EventLogPattern = "pagevision-*.events.jsonl"

// EventLogPath names the event log that accompanies a run log.
func EventLogPath(runLog string) string {
	return strings.TrimSuffix(runLog, ".log") + ".events.jsonl"
}

// WithEventLog mirrors every record of base into a JSON lines file at path.
// The mirror filters at its own level, so a console logger at info can sit
// next to a debug event log. Close the returned file when the session ends.
func WithEventLog(base *slog.Logger, path, level string) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, errors.New("event log: no path (is paths.log_dir set?)")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	events := newJSONHandler(file, levelVar, false)
	if base == nil {
		return slog.New(events), file, nil
	}
	return slog.New(&mirrorHandler{primary: base.Handler(), events: events}), file, nil
}

// mirrorHandler sends each record to the session's normal handler and to
// the event log.
type mirrorHandler struct {
	primary slog.Handler
	events  slog.Handler
}

func (h *mirrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.events.Enabled(ctx, level)
}

func (h *mirrorHandler) Handle(ctx context.Context, record slog.Record) error {
	var primaryErr, eventsErr error
	if h.primary.Enabled(ctx, record.Level) {
		// The two handlers must not share one record's attr storage.
		primaryErr = h.primary.Handle(ctx, record.Clone())
	}
	if h.events.Enabled(ctx, record.Level) {
		eventsErr = h.events.Handle(ctx, record)
	}
	return errors.Join(primaryErr, eventsErr)
}

func (h *mirrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mirrorHandler{primary: h.primary.WithAttrs(attrs), events: h.events.WithAttrs(attrs)}
}

func (h *mirrorHandler) WithGroup(name string) slog.Handler {
	return &mirrorHandler{primary: h.primary.WithGroup(name), events: h.events.WithGroup(name)}
}
