package transcript_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagevision/internal/testsupport"
	"pagevision/internal/transcript"
)

var fixed = time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)

func newWriter(t *testing.T, opts ...transcript.Option) *transcript.Writer {
	t.Helper()
	opts = append([]transcript.Option{transcript.WithClock(func() time.Time { return fixed })}, opts...)
	w, err := transcript.NewWriter(filepath.Join(t.TempDir(), "out"), opts...)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return w
}

func TestSaveWritesHeaderedFile(t *testing.T) {
	w := newWriter(t)
	path, err := w.Save("  Chapter one begins here.  ", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "ocr_text_20260314_092653.txt" {
		t.Fatalf("unexpected file name %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(data)
	for _, want := range []string{"OCR Text Extraction\n", "Timestamp: 2026-03-14 09:26:53\n", "\n\nChapter one begins here.\n\n"} {
		if !strings.Contains(content, want) {
			t.Fatalf("saved file missing %q:\n%s", want, content)
		}
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	w := newWriter(t)
	if _, err := w.Save(" \n ", ""); !errors.Is(err, transcript.ErrEmptyText) {
		t.Fatalf("Save error = %v, want ErrEmptyText", err)
	}
	if _, err := w.Append("", ""); !errors.Is(err, transcript.ErrEmptyText) {
		t.Fatalf("Append error = %v, want ErrEmptyText", err)
	}
}

func TestSaveSanitizesNames(t *testing.T) {
	w := newWriter(t)
	path, err := w.Save("text", "../escape.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != w.Dir() {
		t.Fatalf("file escaped output dir: %q", path)
	}
	if _, err := w.Save("text", "..."); err == nil {
		t.Fatal("expected error for unusable name")
	}
}

func TestSaveFixedName(t *testing.T) {
	w := newWriter(t, transcript.WithTimestampNames(false))
	path, err := w.Save("text", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "ocr_text.txt" {
		t.Fatalf("unexpected file name %q", filepath.Base(path))
	}
}

func TestAppendAccumulates(t *testing.T) {
	w := newWriter(t)
	for _, text := range []string{"first page", "second page"} {
		if _, err := w.Append(text, ""); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	content, err := w.Read(transcript.ContinuousFile)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if strings.Count(content, "[2026-03-14 09:26:53]") != 2 {
		t.Fatalf("expected two timestamp headers:\n%s", content)
	}
	if strings.Index(content, "first page") > strings.Index(content, "second page") {
		t.Fatalf("entries out of order:\n%s", content)
	}
	if strings.Count(content, strings.Repeat("-", 40)) != 2 {
		t.Fatalf("expected two separators:\n%s", content)
	}
}

func TestListNewestFirst(t *testing.T) {
	w := newWriter(t)
	now := time.Now()
	testsupport.WriteFile(t, filepath.Join(w.Dir(), "old.txt"), "old", now.Add(-2*time.Hour))
	testsupport.WriteFile(t, filepath.Join(w.Dir(), "new.txt"), "new", now)
	testsupport.WriteFile(t, filepath.Join(w.Dir(), "mid.txt"), "mid", now.Add(-time.Hour))
	if err := os.Mkdir(filepath.Join(w.Dir(), "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	entries, err := w.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "new.txt,mid.txt,old.txt" {
		t.Fatalf("List order = %v", names)
	}
}

func TestReadRejectsTraversal(t *testing.T) {
	w := newWriter(t)
	if _, err := w.Read("../secret"); err == nil {
		t.Fatal("expected error for path traversal")
	}
	if _, err := w.Read("missing.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
