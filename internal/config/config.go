package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"pagevision/internal/textfilter"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Camera contains capture device settings.
type Camera struct {
	Index            int  `toml:"index"`
	Width            int  `toml:"width"`
	Height           int  `toml:"height"`
	FPS              int  `toml:"fps"`
	Reconnect        bool `toml:"reconnect"`
	ReconnectTimeout int  `toml:"reconnect_timeout"`
}

// OCR contains Tesseract settings.
type OCR struct {
	Language    string  `toml:"language"`
	Confidence  float64 `toml:"confidence"`
	PageSegMode int     `toml:"page_seg_mode"`
	// SampleInterval runs OCR on every Nth captured frame.
	SampleInterval int `toml:"sample_interval"`
}

// Vision contains page detection and preprocessing thresholds.
type Vision struct {
	MinContourArea  float64 `toml:"min_contour_area"`
	MaxContourRatio float64 `toml:"max_contour_ratio"`
	MinDensity      float64 `toml:"min_density"`
	MaxDensity      float64 `toml:"max_density"`
	EnableDenoise   bool    `toml:"enable_denoise"`
	EnableDeskew    bool    `toml:"enable_deskew"`
}

// Filter contains text stability and novelty tuning.
type Filter struct {
	HistorySize              int     `toml:"history_size"`
	StabilityThreshold       int     `toml:"stability_threshold"`
	StabilitySimilarity      float64 `toml:"stability_similarity"`
	NoveltyThreshold         float64 `toml:"novelty_threshold"`
	MinTextLength            int     `toml:"min_text_length"`
	MinWordLength            int     `toml:"min_word_length"`
	MinWordCount             int     `toml:"min_word_count"`
	MinAlnumRatio            float64 `toml:"min_alnum_ratio"`
	MinNumericLength         int     `toml:"min_numeric_length"`
	MaxFramesWithoutDocument int     `toml:"max_frames_without_document"`
}

// Speech contains text-to-speech settings.
type Speech struct {
	Enabled   bool    `toml:"enabled"`
	AutoSpeak bool    `toml:"auto_speak"`
	Command   string  `toml:"command"`
	Voice     string  `toml:"voice"`
	Rate      int     `toml:"rate"`
	Volume    float64 `toml:"volume"`
}

// Output controls what happens to accepted text.
type Output struct {
	AutoSave       bool `toml:"auto_save"`
	Continuous     bool `toml:"continuous"`
	TimestampNames bool `toml:"timestamp_names"`
	History        bool `toml:"history"`
}

// Display contains preview window settings.
type Display struct {
	Preview        bool   `toml:"preview"`
	WindowName     string `toml:"window_name"`
	ShowBoxes      bool   `toml:"show_boxes"`
	ShowConfidence bool   `toml:"show_confidence"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
	EventLog      bool   `toml:"event_log"`
}

// Config encapsulates all configuration values for PageVision.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Camera  Camera  `toml:"camera"`
	OCR     OCR     `toml:"ocr"`
	Vision  Vision  `toml:"vision"`
	Filter  Filter  `toml:"filter"`
	Speech  Speech  `toml:"speech"`
	Output  Output  `toml:"output"`
	Display Display `toml:"display"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pagevision.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, state, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SpeechBinary returns the speech synthesizer executable name.
func (c *Config) SpeechBinary() string {
	if cmd := strings.TrimSpace(c.Speech.Command); cmd != "" {
		return cmd
	}
	return defaultSpeechCommand
}

// HistoryPath returns the location of the SQLite history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// CameraLockPath returns the lock file guarding the configured camera.
func (c *Config) CameraLockPath() string {
	return filepath.Join(c.Paths.StateDir, fmt.Sprintf("camera-%d.lock", c.Camera.Index))
}

// CameraDevicePath returns the V4L2 device node for the configured camera.
func (c *Config) CameraDevicePath() string {
	return fmt.Sprintf("/dev/video%d", c.Camera.Index)
}

// FilterConfig maps the [filter] section onto the text filter thresholds.
func (c *Config) FilterConfig() textfilter.Config {
	return textfilter.Config{
		HistorySize:              c.Filter.HistorySize,
		StabilityThreshold:       c.Filter.StabilityThreshold,
		StabilitySimilarity:      c.Filter.StabilitySimilarity,
		NoveltyThreshold:         c.Filter.NoveltyThreshold,
		MinTextLength:            c.Filter.MinTextLength,
		MinWordLength:            c.Filter.MinWordLength,
		MinWordCount:             c.Filter.MinWordCount,
		MinAlnumRatio:            c.Filter.MinAlnumRatio,
		MinNumericLength:         c.Filter.MinNumericLength,
		MaxFramesWithoutDocument: c.Filter.MaxFramesWithoutDocument,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
