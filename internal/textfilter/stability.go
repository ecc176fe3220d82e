package textfilter

import "pagevision/internal/textutil"

// Tracker keeps a fixed-capacity FIFO of recent detections and reports
// whether the newest one recurs often enough to be trusted.
type Tracker struct {
	capacity   int
	threshold  int
	similarity float64
	history    []string
}

// NewTracker builds a tracker from the history and stability settings in cfg.
func NewTracker(cfg Config) *Tracker {
	capacity := cfg.HistorySize
	if capacity < 1 {
		capacity = 1
	}
	return &Tracker{
		capacity:   capacity,
		threshold:  cfg.StabilityThreshold,
		similarity: cfg.StabilitySimilarity,
		history:    make([]string, 0, capacity),
	}
}

// IsStable records text and reports whether enough buffered entries
// (including text itself) are similar to it. The history is updated even when
// the result is false.
func (t *Tracker) IsStable(text string) bool {
	t.push(text)
	if len(t.history) < t.capacity {
		return false
	}
	similar := 0
	for _, entry := range t.history {
		if textutil.JaccardSimilarity(text, entry) >= t.similarity {
			similar++
		}
	}
	return similar >= t.threshold
}

func (t *Tracker) push(text string) {
	if len(t.history) == t.capacity {
		copy(t.history, t.history[1:])
		t.history = t.history[:t.capacity-1]
	}
	t.history = append(t.history, text)
}

// Reset clears the history.
func (t *Tracker) Reset() {
	t.history = t.history[:0]
}

// Len returns the number of buffered detections.
func (t *Tracker) Len() int {
	return len(t.history)
}

// Capacity returns the configured history size.
func (t *Tracker) Capacity() int {
	return t.capacity
}

// Snapshot returns a copy of the history, oldest first.
func (t *Tracker) Snapshot() []string {
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}
