package logger

import (
	"context"
	"fmt"
	"strings"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
)

// larkLogger routes Lark SDK log lines into a Logger.
type larkLogger struct {
	l Logger
}

// ForLark adapts l to the Lark SDK logger interface.
func ForLark(l Logger) larkcore.Logger {
	if l == nil {
		l = Discard
	}
	return &larkLogger{l: l}
}

func (a *larkLogger) Debug(_ context.Context, args ...interface{}) {
	a.l.Debug(sprint(args), "source", "lark")
}

func (a *larkLogger) Info(_ context.Context, args ...interface{}) {
	a.l.Info(sprint(args), "source", "lark")
}

func (a *larkLogger) Warn(_ context.Context, args ...interface{}) {
	a.l.Warn(sprint(args), "source", "lark")
}

func (a *larkLogger) Error(_ context.Context, args ...interface{}) {
	a.l.Error(sprint(args), "source", "lark")
}

func sprint(args []interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

// LarkLevel maps a LogLevel onto the SDK's level scale.
func LarkLevel(level LogLevel) larkcore.LogLevel {
	switch level {
	case Debug:
		return larkcore.LogLevelDebug
	case Info:
		return larkcore.LogLevelInfo
	case Warn:
		return larkcore.LogLevelWarn
	default:
		return larkcore.LogLevelError
	}
}
