package config

import "pagevision/internal/textfilter"

const (
	defaultConfigPath       = "~/.config/pagevision/config.toml"
	defaultOutputDir        = "~/Documents/pagevision"
	defaultStateDir         = "~/.local/share/pagevision"
	defaultLogDir           = "~/.local/share/pagevision/logs"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultOCRLanguage      = "eng"
	defaultSpeechCommand    = "espeak-ng"
	defaultWindowName       = "PageVision - Live Feed"
)

// Default returns a Config populated with defaults.
func Default() Config {
	filter := textfilter.DefaultConfig()
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Camera: Camera{
			Index:            0,
			Width:            1280,
			Height:           720,
			FPS:              30,
			Reconnect:        true,
			ReconnectTimeout: 30,
		},
		OCR: OCR{
			Language:       defaultOCRLanguage,
			Confidence:     30,
			PageSegMode:    6,
			SampleInterval: 10,
		},
		Vision: Vision{
			MinContourArea:  50000,
			MaxContourRatio: 0.9,
			MinDensity:      0.01,
			MaxDensity:      0.7,
		},
		Filter: Filter{
			HistorySize:              filter.HistorySize,
			StabilityThreshold:       filter.StabilityThreshold,
			StabilitySimilarity:      filter.StabilitySimilarity,
			NoveltyThreshold:         filter.NoveltyThreshold,
			MinTextLength:            filter.MinTextLength,
			MinWordLength:            filter.MinWordLength,
			MinWordCount:             filter.MinWordCount,
			MinAlnumRatio:            filter.MinAlnumRatio,
			MinNumericLength:         filter.MinNumericLength,
			MaxFramesWithoutDocument: filter.MaxFramesWithoutDocument,
		},
		Speech: Speech{
			Enabled:   true,
			AutoSpeak: true,
			Command:   defaultSpeechCommand,
			Rate:      150,
			Volume:    1.0,
		},
		Output: Output{
			TimestampNames: true,
			History:        true,
		},
		Display: Display{
			WindowName:     defaultWindowName,
			ShowBoxes:      true,
			ShowConfidence: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
