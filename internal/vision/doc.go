// Package vision implements the OpenCV stages of the reader: page outline
// detection, binarization for OCR, the text density gate, and the preview
// overlay.
package vision
