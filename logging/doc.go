// Package logging provides a tiny abstraction over slog so the engine can
// depend on a minimal interface (Logger) while letting users plug any
// structured logger. The library itself stays silent unless a logger is
// configured.
package logging
