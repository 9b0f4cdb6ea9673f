// Package logging provides structured logging helpers built on log/slog.
//
// It defines the shared attribute keys used across the codebase so that log
// output stays consistent and greppable, and helpers for anonymizing
// user-identifying values (emails, tokens) before they reach log output.
package logging
