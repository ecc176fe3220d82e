// Package main hosts the PageVision CLI entrypoint and command graph.
//
// `pagevision run` opens the camera, OCR engine, synthesizer, preview window,
// and history store, then hands them to the reader loop. The remaining
// commands are one-shot tools over the same packages: recognizing a still
// image, speaking text, browsing saved files and history, and checking the
// setup. Configuration resolution and logger construction live here so the
// internal packages only receive ready collaborators.
package main
