// Package config loads, normalizes, and validates PageVision configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the PAGEVISION_OCR_LANGUAGE environment fallback.
// The Config type gathers every knob the reader loop and CLI need: camera
// geometry, OCR and vision thresholds, filter tuning, speech and output
// behaviour.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and validation errors that name the
// offending key.
package config
