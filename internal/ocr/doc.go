// Package ocr defines the text recognition contract used by the reader and
// the helpers that normalize recognized text before it reaches the filter.
//
// Engines live in subpackages (see ocr/tesseract) so callers that only need
// the types, such as tests and the filter pipeline, do not link libtesseract.
package ocr
