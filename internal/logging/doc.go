// Package logging assembles structured slog loggers and formatting helpers used
// across bilistage commands.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code tags log lines with the
// stage, title and correlation ID carried on the context. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
