package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagevision/internal/history"
	"pagevision/internal/reader"
	"pagevision/internal/testsupport"
	"pagevision/internal/transcript"
)

const stubEspeak = `if [ "$1" = "--voices" ]; then
cat <<'TABLE'
Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  en-gb           --/M      English_(Great_Britain) gmw/en               (en 2)
 5  ne              --/M      Nepali             inc/ne
TABLE
exit 0
fi
printf '%s\n' "$@" > "$ESPEAK_ARGS"
`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateReportsErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[ocr]\nsample_interval = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "sample_interval") {
		t.Fatalf("expected sample_interval error, got %v", err)
	}
}

func TestHistoryCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "History is empty")

	store := testsupport.MustOpenHistory(t, env.cfg)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	if err := store.BeginSession(ctx, "session-abcdef123", "eng", started); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}
	if _, err := store.Record(ctx, history.Entry{
		SessionID:  "session-abcdef123",
		Text:       "The quick brown fox jumps over the lazy dog",
		Confidence: 91,
		Spoken:     true,
		DetectedAt: started.Add(time.Minute),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.EndSession(ctx, "session-abcdef123", started.Add(2*time.Minute)); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "quick brown fox")
	requireContains(t, out, "session-")

	out, _, err = runCLI(t, []string{"history", "list", "--full", "--session", "session-abcdef123"}, env.configPath)
	if err != nil {
		t.Fatalf("history list --full: %v", err)
	}
	requireContains(t, out, "The quick brown fox jumps over the lazy dog")

	out, _, err = runCLI(t, []string{"history", "sessions"}, env.configPath)
	if err != nil {
		t.Fatalf("history sessions: %v", err)
	}
	requireContains(t, out, "session-abcdef123")
	requireContains(t, out, "2m0s")

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 passages")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Output.History = false
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "history is disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestSavedCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"saved", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("saved list: %v", err)
	}
	requireContains(t, out, "No saved files")

	writer, err := transcript.NewWriter(env.cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := writer.Save("Chapter one begins here", "chapter.txt"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, _, err = runCLI(t, []string{"saved", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("saved list: %v", err)
	}
	requireContains(t, out, "chapter.txt")

	out, _, err = runCLI(t, []string{"saved", "show", "chapter.txt"}, env.configPath)
	if err != nil {
		t.Fatalf("saved show: %v", err)
	}
	requireContains(t, out, "OCR Text Extraction")
	requireContains(t, out, "Chapter one begins here")

	if _, _, err := runCLI(t, []string{"saved", "show", "../config.toml"}, env.configPath); err == nil {
		t.Fatal("expected saved show to reject a path outside the output directory")
	}
}

func TestSayAndVoices(t *testing.T) {
	binDir := t.TempDir()
	bin := testsupport.StubBinary(t, binDir, "espeak-ng", stubEspeak)
	argsFile := filepath.Join(binDir, "args.txt")
	t.Setenv("ESPEAK_ARGS", argsFile)
	env := setupCLITestEnv(t, testsupport.WithSpeech(bin))

	if _, _, err := runCLI(t, []string{"say", "--rate", "200", "hello", "reader"}, env.configPath); err != nil {
		t.Fatalf("say: %v", err)
	}
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	got := strings.Join(strings.Fields(string(data)), " ")
	if !strings.Contains(got, "-s 200") || !strings.HasSuffix(got, "-- hello reader") {
		t.Fatalf("unexpected synthesizer args %q", got)
	}

	if _, _, err := runCLIWithInput(t, []string{"say"}, env.configPath, "from stdin\n"); err != nil {
		t.Fatalf("say from stdin: %v", err)
	}
	data, _ = os.ReadFile(argsFile)
	requireContains(t, string(data), "from stdin")

	out, _, err := runCLI(t, []string{"voices", "--language", "ne"}, env.configPath)
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	requireContains(t, out, "Nepali")
	if strings.Contains(out, "Great Britain") {
		t.Fatalf("language filter not applied:\n%s", out)
	}
}

func TestSayRequiresSpeech(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"say", "hello"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "speech is disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries("espeak-ng"), testsupport.WithCameraIndex(63))

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Configuration ==")
	requireContains(t, out, "English")
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "Output directory:")
	requireContains(t, out, "[ERROR] /dev/video63 not present")
	requireContains(t, out, "required check(s) failed")
	requireContains(t, out, "== History ==")
	requireContains(t, out, "Passages:")
}

func TestRunFailsPreflightWithoutCamera(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"run", "--camera", "63", "--no-preview", "--no-speak"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
	requireContains(t, err.Error(), "/dev/video63")
}

func TestApplyRunOptions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Speech.Enabled = true

	if err := applyRunOptions(cfg, runOptions{preview: true, noPreview: true, camera: -1}); err == nil {
		t.Fatal("expected conflicting preview flags to fail")
	}

	err := applyRunOptions(cfg, runOptions{
		preview:  true,
		noSpeak:  true,
		autoSave: true,
		language: " eng+nep ",
		camera:   2,
		eventLog: true,
	})
	if err != nil {
		t.Fatalf("applyRunOptions: %v", err)
	}
	if !cfg.Display.Preview || cfg.Speech.Enabled || !cfg.Output.AutoSave || !cfg.Logging.EventLog {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.OCR.Language != "eng+nep" || cfg.Camera.Index != 2 {
		t.Fatalf("language/camera = %q/%d", cfg.OCR.Language, cfg.Camera.Index)
	}
	if cfg.CameraLockPath() != filepath.Join(cfg.Paths.StateDir, "camera-2.lock") {
		t.Fatalf("lock path did not follow the camera override: %s", cfg.CameraLockPath())
	}
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(reader.Summary{SessionID: "0123456789abcdef", Frames: 120, Accepted: 3, Duration: 90 * time.Second})
	for _, want := range []string{"Session 01234567", "Frames", "120", "Accepted", "1m30s"} {
		requireContains(t, out, want)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
