// Package language maps Tesseract language settings ("eng", "chi_sim",
// "eng+nep") onto ISO 639-1 codes and English display names. The speech
// engine uses it to pick a voice and the CLI to label a session.
package language
