// Package logging assembles structured slog loggers and formatting helpers used
// across PageVision.
//
// It owns the console and JSON handlers, level and output plumbing, the
// standardized field keys, and helpers that enforce the cause/impact/next-step
// shape of warnings. A session handler stamps every record from a reading
// session with its identifier. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
