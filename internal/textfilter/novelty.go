package textfilter

import (
	"time"

	"pagevision/internal/textutil"
)

// Novelty remembers the last accepted text and rejects detections that are
// too similar to it.
type Novelty struct {
	threshold float64
	now       func() time.Time

	last   string
	lastAt time.Time
}

// NewNovelty builds a comparator using cfg.NoveltyThreshold.
func NewNovelty(cfg Config) *Novelty {
	return &Novelty{threshold: cfg.NoveltyThreshold, now: time.Now}
}

// IsNew reports whether text differs enough from the last accepted text. An
// accepted text replaces the remembered one; a rejected text leaves it as is.
// The first non-empty text of a session is always new.
func (n *Novelty) IsNew(text string) bool {
	if text == "" {
		return false
	}
	if n.last == "" || textutil.JaccardSimilarity(text, n.last) < n.threshold {
		n.last = text
		n.lastAt = n.now()
		return true
	}
	return false
}

// Last returns the last accepted text and when it was accepted.
func (n *Novelty) Last() (string, time.Time) {
	return n.last, n.lastAt
}

// Reset forgets the last accepted text.
func (n *Novelty) Reset() {
	n.last = ""
	n.lastAt = time.Time{}
}
