// Package logging builds the application's slog loggers and provides
// shared attribute helpers so call sites stay terse and consistent.
package logging
