// Package logging builds the process-wide structured logger from the
// logging configuration.
//
// It wraps Go's standard log/slog package: JSON or text output, a
// configurable minimum level, and stderr as the default writer so that
// log lines never mix with command results on stdout.
package logging
