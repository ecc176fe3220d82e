package textfilter

import (
	"strings"
	"unicode"

	"pagevision/internal/textutil"
)

// Classifier rejects detections that look like OCR noise.
type Classifier struct {
	minTextLength    int
	minWordLength    int
	minWordCount     int
	minAlnumRatio    float64
	minNumericLength int
}

// NewClassifier builds a classifier from the length and ratio thresholds in cfg.
func NewClassifier(cfg Config) Classifier {
	return Classifier{
		minTextLength:    cfg.MinTextLength,
		minWordLength:    cfg.MinWordLength,
		minWordCount:     cfg.MinWordCount,
		minAlnumRatio:    cfg.MinAlnumRatio,
		minNumericLength: cfg.MinNumericLength,
	}
}

// IsMeaningful reports whether text resembles real words rather than noise.
func (c Classifier) IsMeaningful(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) < c.minTextLength {
		return false
	}
	if textutil.CountWords(text, c.minWordLength) < c.minWordCount {
		return false
	}

	var alnum, visible int
	digitsOnly := true
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		visible++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
		if !unicode.IsDigit(r) {
			digitsOnly = false
		}
	}
	if visible == 0 || float64(alnum)/float64(visible) < c.minAlnumRatio {
		return false
	}

	// Long digit runs (phone numbers, totals) are kept; short ones are usually
	// page numbers or speckle.
	if digitsOnly {
		return visible > c.minNumericLength
	}
	return true
}
