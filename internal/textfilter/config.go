package textfilter

import (
	"errors"
	"fmt"
)

// Config holds the filter thresholds.
type Config struct {
	// HistorySize is the capacity of the stability history buffer.
	HistorySize int
	// StabilityThreshold is the number of similar history entries required
	// for a detection to count as stable.
	StabilityThreshold int
	// StabilitySimilarity is the minimum Jaccard similarity for a history
	// entry to count toward stability.
	StabilitySimilarity float64
	// NoveltyThreshold is the similarity below which a stable detection is
	// considered different from the last accepted text.
	NoveltyThreshold float64

	MinTextLength    int
	MinWordLength    int
	MinWordCount     int
	MinAlnumRatio    float64
	MinNumericLength int

	// MaxFramesWithoutDocument is the number of consecutive sampled frames
	// without a detected page after which the history is cleared.
	MaxFramesWithoutDocument int
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		HistorySize:              3,
		StabilityThreshold:       2,
		StabilitySimilarity:      0.7,
		NoveltyThreshold:         0.8,
		MinTextLength:            3,
		MinWordLength:            2,
		MinWordCount:             1,
		MinAlnumRatio:            0.6,
		MinNumericLength:         3,
		MaxFramesWithoutDocument: 10,
	}
}

// Validate reports the first invalid threshold.
func (c Config) Validate() error {
	if c.HistorySize < 1 {
		return errors.New("history size must be at least 1")
	}
	if c.StabilityThreshold < 1 || c.StabilityThreshold > c.HistorySize {
		return fmt.Errorf("stability threshold must be between 1 and history size (%d)", c.HistorySize)
	}
	if !unitInterval(c.StabilitySimilarity) {
		return errors.New("stability similarity must be between 0 and 1")
	}
	if !unitInterval(c.NoveltyThreshold) {
		return errors.New("novelty threshold must be between 0 and 1")
	}
	if !unitInterval(c.MinAlnumRatio) {
		return errors.New("alphanumeric ratio must be between 0 and 1")
	}
	if c.MinTextLength < 0 || c.MinWordLength < 0 || c.MinWordCount < 0 || c.MinNumericLength < 0 {
		return errors.New("length thresholds must not be negative")
	}
	if c.MaxFramesWithoutDocument < 0 {
		return errors.New("max frames without document must not be negative")
	}
	return nil
}

func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
