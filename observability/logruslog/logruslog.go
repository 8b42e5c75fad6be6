// Package logruslog backs the observability Logger contract with logrus for
// the service binaries.
package logruslog

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wudi/qpickit/observability"
)

// Logger adapts a logrus entry to observability.Logger.
type Logger struct {
	entry *logrus.Entry
}

// New builds a logger writing structured text to w at the given level.
// Unknown levels fall back to info.
func New(w io.Writer, level string) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &Logger{entry: logrus.NewEntry(l)}
}

func fieldsOf(fields []observability.Field) logrus.Fields {
	if len(fields) == 0 {
		return nil
	}
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key()] = f.Value()
	}
	return out
}

func (l *Logger) Debug(msg string, fields ...observability.Field) {
	l.entry.WithFields(fieldsOf(fields)).Debug(msg)
}

func (l *Logger) Info(msg string, fields ...observability.Field) {
	l.entry.WithFields(fieldsOf(fields)).Info(msg)
}

func (l *Logger) Warn(msg string, fields ...observability.Field) {
	l.entry.WithFields(fieldsOf(fields)).Warn(msg)
}

func (l *Logger) Error(msg string, fields ...observability.Field) {
	l.entry.WithFields(fieldsOf(fields)).Error(msg)
}

func (l *Logger) With(fields ...observability.Field) observability.Logger {
	return &Logger{entry: l.entry.WithFields(fieldsOf(fields))}
}
