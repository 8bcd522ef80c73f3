// Package logging provides the structured logging interface used across
// molgraph and its zap-backed implementation. Components depend on Logger;
// go.uber.org/zap is imported only here.
//
// Initialisation order in cmd/*/main.go:
//
//  1. Load configuration.
//  2. Call NewLogger(cfg.Log) and pass the result to SetDefault.
//  3. Build the remaining components, injecting the Logger.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Field
// ─────────────────────────────────────────────────────────────────────────────

// Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Int64(key string, val int64) Field            { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field        { return Field{Key: key, Value: val} }

// Err records err under the key "error". A nil error is recorded as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err}
}

// SMILES records the molecule input under the canonical key "smiles". Long
// inputs are truncated so a pathological string cannot flood the log.
func SMILES(s string) Field {
	const max = 256
	if len(s) > max {
		s = s[:max] + "..."
	}
	return Field{Key: "smiles", Value: s}
}

// RequestID records a correlation id under the key "request_id".
func RequestID(id string) Field { return Field{Key: "request_id", Value: id} }

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger is the structured logging contract.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// Fatal logs and then calls os.Exit(1). Startup failures only.
	Fatal(msg string, fields ...Field)

	// With returns a child Logger carrying fields on every entry.
	With(fields ...Field) Logger
	// WithError attaches err. A nil error adds nothing.
	WithError(err error) Logger
	// Named appends name to the logger name with a period separator.
	Named(name string) Logger
	// Sync flushes buffered entries.
	Sync() error
}

// Levels accepted by LogConfig.Level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LogConfig carries the parameters for NewLogger. It is populated from the
// "log" section of the configuration file.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	// Format is "json" or "console". Empty means json.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// OutputPaths defaults to ["stderr"] so that command output on stdout
	// stays machine-readable.
	OutputPaths      []string `mapstructure:"output_paths" yaml:"output_paths" json:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths" yaml:"error_output_paths" json:"error_output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// zap implementation
// ─────────────────────────────────────────────────────────────────────────────

type zapLogger struct {
	z *zap.Logger
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...)}
}

// WithError attaches err and, for application errors, its code. A nil error
// returns the receiver unchanged.
func (l *zapLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	fields := []Field{Err(err)}
	if code := apperrors.GetCode(err); code != apperrors.CodeUnknown {
		fields = append(fields, String("error_code", string(code)))
	}
	return l.With(fields...)
}

func (l *zapLogger) Named(name string) Logger { return &zapLogger{z: l.z.Named(name)} }

func (l *zapLogger) Sync() error { return l.z.Sync() }

// ParseLevel converts a level name to a zapcore.Level. Unknown names map to
// info so a typo in configuration never silences the logger.
func ParseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func encoderConfig(format string) zapcore.EncoderConfig {
	var enc zapcore.EncoderConfig
	if format == "console" {
		enc = zap.NewDevelopmentEncoderConfig()
	} else {
		enc = zap.NewProductionEncoderConfig()
	}
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return enc
}

// NewLogger builds a zap-backed Logger from cfg.
func NewLogger(cfg LogConfig) (Logger, error) {
	l, _, err := NewLeveledLogger(cfg)
	return l, err
}

// AtomicLevel changes the level of a running logger.
type AtomicLevel struct {
	lvl zap.AtomicLevel
}

// SetLevel accepts the same names as LogConfig.Level.
func (a AtomicLevel) SetLevel(level string) { a.lvl.SetLevel(ParseLevel(level)) }

func (a AtomicLevel) String() string { return a.lvl.String() }

// NewLeveledLogger is NewLogger that also returns a handle on the level, so
// long-running processes can follow config reloads.
func NewLeveledLogger(cfg LogConfig) (Logger, AtomicLevel, error) {
	if cfg.OutputPaths == nil {
		cfg.OutputPaths = []string{"stderr"}
	}
	if len(cfg.OutputPaths) == 0 {
		return nil, AtomicLevel{}, fmt.Errorf("logging: at least one output path is required")
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
	}

	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zapCfg := zap.Config{
		Level:            level,
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig(encoding),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}
	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, AtomicLevel{}, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return &zapLogger{z: z}, AtomicLevel{lvl: level}, nil
}

// NewWriterLogger writes JSON entries at level to w. The CLI uses it to log to
// stderr without going through zap's path-based sinks.
func NewWriterLogger(w io.Writer, level string) Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig("json")),
		zapcore.AddSync(w),
		ParseLevel(level),
	)
	return NewLoggerFromCore(core)
}

// NewLoggerFromCore wraps an existing core, typically an observer in tests.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

// SlowOperationThreshold is the duration above which LogOperationDuration
// reports at warn level.
const SlowOperationThreshold = time.Second

// LogOperationDuration logs how long op took since start.
func LogOperationDuration(l Logger, op string, start time.Time, fields ...Field) {
	elapsed := time.Since(start)
	fields = append(fields, String("operation", op), Int64("duration_ms", elapsed.Milliseconds()))
	if elapsed > SlowOperationThreshold {
		l.Warn("slow operation", fields...)
		return
	}
	l.Debug("operation completed", fields...)
}

// ─────────────────────────────────────────────────────────────────────────────
// nop
// ─────────────────────────────────────────────────────────────────────────────

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)   {}
func (nopLogger) Info(string, ...Field)    {}
func (nopLogger) Warn(string, ...Field)    {}
func (nopLogger) Error(string, ...Field)   {}
func (nopLogger) Fatal(string, ...Field)   {}
func (n nopLogger) With(...Field) Logger   { return n }
func (n nopLogger) WithError(error) Logger { return n }
func (n nopLogger) Named(string) Logger    { return n }
func (nopLogger) Sync() error              { return nil }

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

// ─────────────────────────────────────────────────────────────────────────────
// Process default
// ─────────────────────────────────────────────────────────────────────────────

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide Logger. Nil is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide Logger. Prefer constructor injection.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

//Personal.AI order the ending
