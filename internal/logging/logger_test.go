package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagevision/internal/config"
	"pagevision/internal/logging"
)

func TestConsoleLoggerHeader(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "reader")
	logger.Info("text accepted",
		logging.String(logging.FieldSessionID, "0123456789abcdef"),
		logging.Frame(120),
		logging.String(logging.FieldDecisionStage, "accepted"),
		logging.Int("words", 4),
	)

	out := buf.String()
	for _, want := range []string{"INFO [reader]", "session 01234567", "frame 120 (accepted)", "- text accepted", "    words: 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "component:") {
		t.Fatalf("component should only appear in the header:\n%s", out)
	}
}

func TestConsoleLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", logging.String(logging.FieldEventType, "greeting"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json: %v (%s)", err, buf.String())
	}
	if record["level"] != "info" || record["msg"] != "hello" || record["event_type"] != "greeting" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, runLog, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if matched, _ := filepath.Match(logging.RunLogPattern, filepath.Base(runLog)); !matched {
		t.Fatalf("run log %q does not match %q", runLog, logging.RunLogPattern)
	}
	logger.Info("persisted")
	data, err := os.ReadFile(runLog)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	if !strings.Contains(string(data), "persisted") {
		t.Fatalf("run log missing record: %s", data)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "speech failed", "speech_failed",
		logging.String(logging.FieldImpact, "text was not read aloud"),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if record["event_type"] != "speech_failed" {
		t.Fatalf("event_type = %v", record["event_type"])
	}
	if record["error_hint"] == nil {
		t.Fatal("expected default error_hint")
	}
	if record["impact"] != "text was not read aloud" {
		t.Fatalf("explicit impact overwritten: %v", record["impact"])
	}
}

func TestWithSessionID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	logger := logging.WithSessionID(base, "session-abc").With("extra", "value")
	logger.Info("test message")

	out := buf.String()
	if !strings.Contains(out, `"session_id":"session-abc"`) || !strings.Contains(out, `"extra":"value"`) {
		t.Fatalf("unexpected output: %s", out)
	}
	if logging.WithSessionID(nil, "x") == nil {
		t.Fatal("expected nop logger for nil base")
	}
}

func TestWithEventLogMirrorsAtOwnLevel(t *testing.T) {
	var console bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}))
	runLog := filepath.Join(t.TempDir(), "pagevision-20260101T120000.log")
	path := logging.EventLogPath(runLog)
	if filepath.Base(path) != "pagevision-20260101T120000.events.jsonl" {
		t.Fatalf("unexpected event log name %q", path)
	}
	if matched, _ := filepath.Match(logging.EventLogPattern, filepath.Base(path)); !matched {
		t.Fatalf("event log %q does not match %q", path, logging.EventLogPattern)
	}

	logger, closer, err := logging.WithEventLog(base, path, "debug")
	if err != nil {
		t.Fatalf("WithEventLog: %v", err)
	}
	logger = logger.With(logging.String(logging.FieldSessionID, "s1"))
	logger.Debug("frame skipped")
	logger.Info("text accepted")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if strings.Contains(console.String(), "frame skipped") {
		t.Fatal("info handler received debug record")
	}
	if !strings.Contains(console.String(), "text accepted") {
		t.Fatal("info handler missed info record")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read event log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 event lines, got %d:\n%s", len(lines), data)
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("event line is not JSON: %v", err)
	}
	if first["msg"] != "frame skipped" || first["level"] != "debug" || first["session_id"] != "s1" {
		t.Fatalf("unexpected event record: %v", first)
	}
	if _, ok := first["ts"]; !ok {
		t.Fatalf("event record missing ts: %v", first)
	}
}

func TestWithEventLogRequiresPath(t *testing.T) {
	if _, _, err := logging.WithEventLog(logging.NewNop(), " ", "info"); err == nil {
		t.Fatal("expected error for empty event log path")
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.RetentionDays = 30

	oldRun := filepath.Join(dir, "pagevision-20250101T000000.log")
	oldEvents := filepath.Join(dir, "pagevision-20250101T000000.events.jsonl")
	current := filepath.Join(dir, "pagevision-20250102T000000.log")
	newRun := filepath.Join(dir, "pagevision-20260101T000000.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{oldRun, oldEvents, current, newRun, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{oldRun, oldEvents, current, other} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	if removed := logging.CleanupOldLogs(logging.NewNop(), &cfg, current); removed != 2 {
		t.Fatalf("removed %d files, want 2", removed)
	}
	for _, path := range []string{oldRun, oldEvents} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", path)
		}
	}
	for _, path := range []string{current, newRun, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", path, err)
		}
	}
}

func TestCleanupOldLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.RetentionDays = 0
	old := filepath.Join(dir, "pagevision-20250101T000000.log")
	if err := os.WriteFile(old, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	past := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if removed := logging.CleanupOldLogs(nil, &cfg); removed != 0 {
		t.Fatalf("removed %d files with retention disabled", removed)
	}
}
