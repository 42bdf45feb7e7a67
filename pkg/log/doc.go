// Package log provides structured logging for dqp components.
//
// It is a thin, typed surface over log/slog: components accept a Logger and
// attach context with With, callers pick level and format at construction
// time. NewNop returns a logger that discards everything, which is the
// default for library code so embedding dqp never forces log output.
package log
