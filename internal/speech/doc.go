// Package speech reads accepted text aloud through a system synthesizer.
//
// Espeak shells out to espeak-ng. Speaker wraps any Engine with fire-and-forget
// playback guarded by a busy flag: while one utterance is playing, further
// requests are dropped rather than queued, so the reader never falls behind
// the page in front of the camera.
package speech
