package common

import (
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

// Logger is the subset of gommon/echo logging used outside the transport layer.
// Both *log.Logger and echo.Logger satisfy it.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NewLogger returns a prefixed gommon logger at the named level.
// Unknown level names fall back to info.
func NewLogger(prefix, level string) *log.Logger {
	l := log.New(prefix)
	l.SetLevel(ParseLogLevel(level))
	return l
}

// NewDiscardLogger returns a logger that drops everything, for tests
func NewDiscardLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

// ParseLogLevel maps debug, info, warn and error to gommon levels
func ParseLogLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
