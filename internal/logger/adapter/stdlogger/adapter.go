// Package stdlogger adapts the global zerolog logger to printf style
// logging interfaces, for example gorm's logger.Writer.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to zerolog.
type Logger struct {
	component string
}

// New returns a Logger writing through the global zerolog logger.
func New() *Logger {
	return &Logger{}
}

// NewComponent returns a Logger that tags every entry with a component field.
func NewComponent(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.event(zerolog.DebugLevel).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.event(zerolog.InfoLevel).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.event(zerolog.WarnLevel).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.event(zerolog.ErrorLevel).Msgf(format, args...)
}

// Printf implements gorm's logger.Writer. gorm prefixes its messages with the
// level in brackets; those are mapped to the matching zerolog level.
func (l *Logger) Printf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))

	switch {
	case strings.Contains(msg, "[error]"):
		l.event(zerolog.ErrorLevel).Msg(msg)
	case strings.Contains(msg, "[warn]"), strings.Contains(msg, "SLOW SQL"):
		l.event(zerolog.WarnLevel).Msg(msg)
	case strings.Contains(msg, "[info]"):
		l.event(zerolog.InfoLevel).Msg(msg)
	default:
		l.event(zerolog.DebugLevel).Msg(msg)
	}
}
