// Package log provides a leveled logger with structured fields, backed by logrus.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured fields to attach to a log entry.
type Fields map[string]any

// Logger is the logging contract used throughout the application. It wraps logrus so that packages never depend on
// the logging backend directly, and so a logger instance can be carried in the options instead of ambient globals.
type Logger interface {
	// Tracef logs a message at level Trace.
	Tracef(format string, args ...any)

	// Debugf logs a message at level Debug.
	Debugf(format string, args ...any)

	// Infof logs a message at level Info.
	Infof(format string, args ...any)

	// Warnf logs a message at level Warn.
	Warnf(format string, args ...any)

	// Errorf logs a message at level Error.
	Errorf(format string, args ...any)

	// WithField returns a logger with the given field attached to every entry.
	WithField(key string, value any) Logger

	// WithFields returns a logger with the given fields attached to every entry.
	WithFields(fields Fields) Logger

	// WithError returns a logger with the given error attached as a field.
	WithError(err error) Logger

	// Level returns the current log level.
	Level() Level

	// SetLevel sets the log level.
	SetLevel(level Level)

	// SetOutput sets the destination the logger writes to.
	SetOutput(out io.Writer)
}

type logger struct {
	entry *logrus.Entry
}

// New returns a new Logger writing to the given output at the given level, using the plain text formatter.
func New(out io.Writer, level Level) Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(level.ToLogrusLevel())
	base.SetFormatter(NewTextFormatter())

	return &logger{entry: logrus.NewEntry(base)}
}

func (log *logger) Tracef(format string, args ...any) { log.entry.Tracef(format, args...) }
func (log *logger) Debugf(format string, args ...any) { log.entry.Debugf(format, args...) }
func (log *logger) Infof(format string, args ...any)  { log.entry.Infof(format, args...) }
func (log *logger) Warnf(format string, args ...any)  { log.entry.Warnf(format, args...) }
func (log *logger) Errorf(format string, args ...any) { log.entry.Errorf(format, args...) }

func (log *logger) WithField(key string, value any) Logger {
	return &logger{entry: log.entry.WithField(key, value)}
}

func (log *logger) WithFields(fields Fields) Logger {
	return &logger{entry: log.entry.WithFields(logrus.Fields(fields))}
}

func (log *logger) WithError(err error) Logger {
	return &logger{entry: log.entry.WithError(err)}
}

func (log *logger) Level() Level {
	for level, logrusLevel := range logrusLevels {
		if logrusLevel == log.entry.Logger.GetLevel() {
			return level
		}
	}

	return InfoLevel
}

func (log *logger) SetLevel(level Level) {
	log.entry.Logger.SetLevel(level.ToLogrusLevel())
}

func (log *logger) SetOutput(out io.Writer) {
	log.entry.Logger.SetOutput(out)
}
