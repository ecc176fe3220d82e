// Package textutil provides small text helpers shared by the OCR filter and
// the transcript writer.
//
// The primary use cases are:
//   - Building lower-cased word sets from OCR output
//   - Computing Jaccard similarity between two detections
//   - Sanitizing filenames for transcript files
//
// Word sets are whitespace-delimited and case-insensitive; punctuation is kept
// as part of the word so that "fox." and "fox" are distinct, matching how the
// filter thresholds were tuned.
package textutil
