package textfilter

import "time"

// Stage names the outcome of a filter evaluation.
type Stage string

const (
	// StageNoise means the meaningfulness gate rejected the text.
	StageNoise Stage = "noise"
	// StageUnstable means the text has not recurred across enough frames.
	StageUnstable Stage = "unstable"
	// StageDuplicate means the text matches the last accepted text.
	StageDuplicate Stage = "duplicate"
	// StageAccepted means every gate passed.
	StageAccepted Stage = "accepted"
)

// Decision captures the outcome of each gate for one detection.
type Decision struct {
	Text       string
	Meaningful bool
	Stable     bool
	Novel      bool
	Stage      Stage
}

// Accepted reports whether the detection passed every gate.
func (d Decision) Accepted() bool {
	return d.Stage == StageAccepted
}

// Filter chains the three gates and applies the document-absence reset
// policy. It is not safe for concurrent use.
type Filter struct {
	cfg        Config
	classifier Classifier
	tracker    *Tracker
	novelty    *Novelty

	framesWithoutDocument int
}

// New validates cfg and returns a filter with empty state.
func New(cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Filter{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		tracker:    NewTracker(cfg),
		novelty:    NewNovelty(cfg),
	}, nil
}

// WithClock overrides the clock used to timestamp accepted text.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	if now != nil {
		f.novelty.now = now
	}
	return f
}

// Evaluate runs text through the meaningfulness, stability and novelty gates,
// stopping at the first one that fails.
func (f *Filter) Evaluate(text string) Decision {
	d := Decision{Text: text}
	if !f.classifier.IsMeaningful(text) {
		d.Stage = StageNoise
		return d
	}
	d.Meaningful = true
	if !f.tracker.IsStable(text) {
		d.Stage = StageUnstable
		return d
	}
	d.Stable = true
	if !f.novelty.IsNew(text) {
		d.Stage = StageDuplicate
		return d
	}
	d.Novel = true
	d.Stage = StageAccepted
	return d
}

// ObserveDocument records whether the latest sampled frame contained a page.
// It returns true when the history was cleared because the page has been
// missing for more than MaxFramesWithoutDocument frames.
func (f *Filter) ObserveDocument(present bool) bool {
	if present {
		f.framesWithoutDocument = 0
		return false
	}
	f.framesWithoutDocument++
	if f.framesWithoutDocument > f.cfg.MaxFramesWithoutDocument {
		f.tracker.Reset()
		return true
	}
	return false
}

// FramesWithoutDocument returns the current absence streak.
func (f *Filter) FramesWithoutDocument() int {
	return f.framesWithoutDocument
}

// Reset clears the history, the absence streak and the last accepted text.
func (f *Filter) Reset() {
	f.tracker.Reset()
	f.novelty.Reset()
	f.framesWithoutDocument = 0
}

// Classifier exposes the meaningfulness gate for one-off checks.
func (f *Filter) Classifier() Classifier { return f.classifier }

// Tracker exposes the stability tracker.
func (f *Filter) Tracker() *Tracker { return f.tracker }

// Novelty exposes the novelty comparator.
func (f *Filter) Novelty() *Novelty { return f.novelty }
