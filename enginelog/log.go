// Package enginelog wraps the standard library logger with the engine's
// bracketed-tag convention (seen throughout the renderer and profiler:
// "[Profiler] ..."), so every subsystem logs through one place without
// pulling in a structured-logging dependency no part of this stack uses.
package enginelog

import "log"

// Logger is a tag-scoped logger. The zero value is not usable; construct
// one with New.
type Logger struct {
	tag string
}

// New returns a Logger that prefixes every line with "[tag] ".
func New(tag string) *Logger {
	return &Logger{tag: tag}
}

func (l *Logger) Printf(format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{l.tag}, args...)...)
}

func (l *Logger) Println(args ...any) {
	log.Println(append([]any{"[" + l.tag + "]"}, args...)...)
}

// Fatalf logs then calls os.Exit(1) via the standard library logger. No
// package in this module calls it.
func (l *Logger) Fatalf(format string, args ...any) {
	log.Fatalf("[%s] "+format, append([]any{l.tag}, args...)...)
}
