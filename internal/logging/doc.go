// Package logging builds the process-wide slog logger and provides the
// standardized attribute and context helpers shared across components.
package logging
