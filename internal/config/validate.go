package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateCamera,
		c.validateOCR,
		c.validateVision,
		c.validateFilter,
		c.validateSpeech,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Index < 0 {
		return errors.New("camera.index must be non-negative")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errors.New("camera.width and camera.height must be positive")
	}
	if c.Camera.FPS <= 0 {
		return errors.New("camera.fps must be positive")
	}
	if c.Camera.ReconnectTimeout < 0 {
		return errors.New("camera.reconnect_timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if c.OCR.Confidence < 0 || c.OCR.Confidence > 100 {
		return errors.New("ocr.confidence must be between 0 and 100")
	}
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return errors.New("ocr.page_seg_mode must be between 0 and 13")
	}
	if c.OCR.SampleInterval < 1 {
		return errors.New("ocr.sample_interval must be at least 1")
	}
	return nil
}

func (c *Config) validateVision() error {
	if c.Vision.MinContourArea < 0 {
		return errors.New("vision.min_contour_area must be non-negative")
	}
	if c.Vision.MaxContourRatio <= 0 || c.Vision.MaxContourRatio > 1 {
		return errors.New("vision.max_contour_ratio must be in (0, 1]")
	}
	if c.Vision.MinDensity < 0 || c.Vision.MaxDensity > 1 || c.Vision.MinDensity >= c.Vision.MaxDensity {
		return errors.New("vision.min_density must be below vision.max_density within [0, 1]")
	}
	return nil
}

func (c *Config) validateFilter() error {
	f := c.Filter
	if f.HistorySize < 1 {
		return errors.New("filter.history_size must be at least 1")
	}
	if f.StabilityThreshold < 1 || f.StabilityThreshold > f.HistorySize {
		return fmt.Errorf("filter.stability_threshold must be between 1 and filter.history_size (%d)", f.HistorySize)
	}
	ratios := []struct {
		key   string
		value float64
	}{
		{"filter.stability_similarity", f.StabilitySimilarity},
		{"filter.novelty_threshold", f.NoveltyThreshold},
		{"filter.min_alnum_ratio", f.MinAlnumRatio},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", r.key)
		}
	}
	counts := map[string]int{
		"filter.min_text_length":             f.MinTextLength,
		"filter.min_word_length":             f.MinWordLength,
		"filter.min_word_count":              f.MinWordCount,
		"filter.min_numeric_length":          f.MinNumericLength,
		"filter.max_frames_without_document": f.MaxFramesWithoutDocument,
	}
	return ensureNonNegative(counts)
}

func (c *Config) validateSpeech() error {
	if c.Speech.Rate < 50 || c.Speech.Rate > 300 {
		return errors.New("speech.rate must be between 50 and 300")
	}
	if c.Speech.Volume < 0 || c.Speech.Volume > 1 {
		return errors.New("speech.volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognised", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be non-negative")
	}
	return nil
}

func ensureNonNegative(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be non-negative", key)
		}
	}
	return nil
}
