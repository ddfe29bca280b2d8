// Package util provides low-level helpers shared by all other packages.
package util

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogNormal  LogLevel = 1
	LogVerbose LogLevel = 2
	LogDebug   LogLevel = 3
)

// zap has no level between Info and Debug, so verbose takes Debug and
// debug gets a custom level one step below it.
const (
	zapVerbose = zapcore.DebugLevel
	zapDebug   = zapcore.DebugLevel - 1
)

// Logger writes levelled messages through a zap core with optional
// timestamps and level prefixes.  A nil *Logger discards everything.
//
// While the terminal is in raw mode the output must not be the terminal
// itself; callers point it at a log file or io.Discard.
type Logger struct {
	level      LogLevel
	mu         sync.Mutex
	output     io.Writer
	timestamps bool
	sugar      *zap.SugaredLogger
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = quiet, 1 = normal, 2 = verbose, 3 = debug) to stderr.
func NewLogger(verbosity int) *Logger {
	l := &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stderr,
		timestamps: verbosity >= 3, // auto-enable timestamps in debug mode
	}
	l.rebuild()
	return l
}

// SetTimestamps enables or disables timestamp prefixes.
func (l *Logger) SetTimestamps(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamps = on
	l.rebuild()
}

// SetOutput overrides the output writer (default: os.Stderr).
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel { return l.level }

// Info prints when verbosity ≥ 1.  Prefixed with [INF].
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(zapcore.InfoLevel, format, args...)
}

// Warn prints when verbosity ≥ 1.  Prefixed with [WRN].
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(zapcore.WarnLevel, format, args...)
}

// Verbose prints when verbosity ≥ 2.  Prefixed with [VRB].
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.logf(zapVerbose, format, args...)
}

// Debug prints when verbosity ≥ 3.  Prefixed with [DBG].
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(zapDebug, format, args...)
}

// Error always prints regardless of verbosity.  Prefixed with [ERR].
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(zapcore.ErrorLevel, format, args...)
}

// Sync flushes any buffered output.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	s := l.sugar
	l.mu.Unlock()
	return s.Sync()
}

func (l *Logger) logf(lvl zapcore.Level, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	s := l.sugar
	l.mu.Unlock()
	s.Logf(lvl, format, args...)
}

// rebuild swaps the zap core; callers hold l.mu (or own l exclusively).
func (l *Logger) rebuild() {
	enc := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      encodeLevel,
		ConsoleSeparator: " ",
	}
	if l.timestamps {
		enc.TimeKey = "ts"
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}

	threshold := levelThreshold(l.level)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(l.output)),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool { return lvl >= threshold }),
	)
	l.sugar = zap.New(core).Sugar()
}

// levelThreshold maps a verbosity to the lowest zap level that is
// written.  Errors always pass.
func levelThreshold(v LogLevel) zapcore.Level {
	switch {
	case v >= LogDebug:
		return zapDebug
	case v >= LogVerbose:
		return zapVerbose
	case v >= LogNormal:
		return zapcore.InfoLevel
	default:
		return zapcore.ErrorLevel
	}
}

func encodeLevel(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch {
	case lvl <= zapDebug:
		enc.AppendString("[DBG]")
	case lvl == zapVerbose:
		enc.AppendString("[VRB]")
	case lvl == zapcore.InfoLevel:
		enc.AppendString("[INF]")
	case lvl == zapcore.WarnLevel:
		enc.AppendString("[WRN]")
	default:
		enc.AppendString("[ERR]")
	}
}
