// Package logger provides structured logging setup and context helpers
// built on log/slog.
package logger
