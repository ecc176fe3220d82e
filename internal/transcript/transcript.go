// Package transcript writes accepted text to plain files in the output
// directory and reads them back for the saved command.
package transcript

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pagevision/internal/textutil"
)

// ContinuousFile is the default target for Append.
const ContinuousFile = "continuous_ocr.txt"

const rule = "============================================================"

// ErrEmptyText is returned when asked to save blank text.
var ErrEmptyText = errors.New("no text to save")

// Entry describes a saved file.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Writer owns an output directory.
type Writer struct {
	dir            string
	timestampNames bool
	now            func() time.Time
}

// Option customizes a Writer.
type Option func(*Writer)

// WithClock overrides the clock used for file names and headers.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithTimestampNames controls whether Save names files with a timestamp
// (ocr_text_YYYYMMDD_HHMMSS.txt) or with a fixed ocr_text.txt.
func WithTimestampNames(enabled bool) Option {
	return func(w *Writer) { w.timestampNames = enabled }
}

// NewWriter creates dir if needed.
func NewWriter(dir string, opts ...Option) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("transcript directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	w := &Writer{dir: dir, timestampNames: true, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Save writes text to its own file with a title and timestamp header. An
// empty name picks one from the clock.
func (w *Writer) Save(text, name string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	now := w.now()
	name, err := w.resolveName(name, now)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("OCR Text Extraction\n")
	b.WriteString("Timestamp: " + now.Format("2006-01-02 15:04:05") + "\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(text)
	b.WriteString("\n\n" + rule + "\n")

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return path, nil
}

// Append adds text to a running file with a [timestamp] header and a
// separator. An empty name means ContinuousFile.
func (w *Writer) Append(text, name string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if strings.TrimSpace(name) == "" {
		name = ContinuousFile
	}
	name = textutil.SanitizeFileName(name)
	if name == "" {
		return "", errors.New("append transcript: invalid file name")
	}

	path := filepath.Join(w.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("append transcript: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("\n[%s]\n%s\n%s\n", w.now().Format("2006-01-02 15:04:05"), text, strings.Repeat("-", 40))
	if _, err := f.WriteString(entry); err != nil {
		return "", fmt.Errorf("append transcript: %w", err)
	}
	return path, nil
}

// List returns the regular files in the output directory, newest first.
func (w *Writer) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(w.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(w.dir, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].Name > entries[j].Name
	})
	return entries, nil
}

// Read returns the contents of a saved file.
func (w *Writer) Read(name string) (string, error) {
	clean := textutil.SanitizeFileName(name)
	if clean == "" || clean != strings.TrimSpace(name) {
		return "", fmt.Errorf("read transcript: invalid file name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(w.dir, clean))
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

func (w *Writer) resolveName(name string, now time.Time) (string, error) {
	if strings.TrimSpace(name) == "" {
		if w.timestampNames {
			return "ocr_text_" + now.Format("20060102_150405") + ".txt", nil
		}
		return "ocr_text.txt", nil
	}
	clean := textutil.SanitizeFileName(name)
	if clean == "" {
		return "", fmt.Errorf("save transcript: invalid file name %q", name)
	}
	return clean, nil
}
