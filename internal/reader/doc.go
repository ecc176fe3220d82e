// Package reader runs a live reading session: it pulls frames from the
// camera, gates them on page detection and text density, OCRs the sampled
// frames, and passes the text through the stability and novelty filter.
// Accepted text becomes the current text and is spoken, saved, and recorded
// according to the configuration.
//
// Every collaborator is an interface so the loop can be exercised without a
// camera, OpenCV, or Tesseract. The run command wires the real ones.
package reader
