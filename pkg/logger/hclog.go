package logger

import (
	"github.com/hashicorp/go-hclog"
)

type hclogLogger struct {
	h     hclog.Logger
	level LogLevel
}

// FromHclog wraps an hclog.Logger. The returned logger filters at level on
// top of whatever level h itself is configured with.
func FromHclog(h hclog.Logger, level LogLevel) Logger {
	return &hclogLogger{h: h, level: level}
}

func (l *hclogLogger) LogMode(level LogLevel) Logger {
	return &hclogLogger{h: l.h, level: level}
}

func (l *hclogLogger) Info(msg string, args ...any) {
	if l.level >= Info {
		l.h.Info(msg, args...)
	}
}

func (l *hclogLogger) Warn(msg string, args ...any) {
	if l.level >= Warn {
		l.h.Warn(msg, args...)
	}
}

func (l *hclogLogger) Error(msg string, args ...any) {
	if l.level >= Error {
		l.h.Error(msg, args...)
	}
}

func (l *hclogLogger) Debug(msg string, args ...any) {
	if l.level >= Debug {
		l.h.Debug(msg, args...)
	}
}

// HclogLevel maps a LogLevel onto hclog's level scale.
func HclogLevel(level LogLevel) hclog.Level {
	switch level {
	case Silent:
		return hclog.Off
	case Error:
		return hclog.Error
	case Warn:
		return hclog.Warn
	case Info:
		return hclog.Info
	default:
		return hclog.Debug
	}
}
