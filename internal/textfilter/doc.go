// Package textfilter decides which OCR detections are worth announcing.
//
// Each sampled frame produces one raw text string. A Filter runs it through
// three gates in order: the meaningfulness classifier rejects OCR noise, the
// stability tracker requires the text to recur across recent frames, and the
// novelty comparator suppresses repeats of the last accepted text. A Filter
// owns all of its state and is tied to a single reading session; callers
// create one per session rather than sharing package-level state.
//
// None of the gates return errors. Empty or malformed input simply fails the
// first gate.
package textfilter
