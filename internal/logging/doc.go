// Package logging constructs the slog loggers used throughout the pipeline
// and exposes typed attribute helpers so call sites stay consistent about
// field names. Console output is the default; JSON output and a shared log
// file are selected through configuration.
package logging
