package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

func newBufferLogger(level string) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWriterLogger(buf, level), buf
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = NewLogger(LogConfig{Level: LevelDebug, Format: "console", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewLeveledLogger_SetLevel(t *testing.T) {
	l, level, err := NewLeveledLogger(LogConfig{Level: LevelWarn, OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "warn", level.String())

	level.SetLevel(LevelDebug)
	assert.Equal(t, "debug", level.String())
	level.SetLevel("nonsense")
	assert.Equal(t, "info", level.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestWriterLogger_LevelsAndFields(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	l.Debug("hidden")
	l.Info("parsed", SMILES("CCO"), Int("atoms", 3))
	l.With(String("component", "cli")).Warn("careful")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"parsed"`)
	assert.Contains(t, out, `"smiles":"CCO"`)
	assert.Contains(t, out, `"atoms":3`)
	assert.Contains(t, out, `"component":"cli"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestWithError(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)
	l.WithError(apperrors.New(apperrors.ErrCodeMoleculeInvalidSMILES, "invalid SMILES")).Error("rejected")
	assert.Contains(t, buf.String(), `"error_code":"MOL_001"`)
	assert.Contains(t, buf.String(), `"error":"[MOL_001] invalid SMILES"`)

	buf.Reset()
	l.WithError(errors.New("std error")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"std error"`)
	assert.NotContains(t, buf.String(), "error_code")

	buf.Reset()
	l.WithError(nil).Info("fine")
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestSMILESField_Truncates(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'C'
	}
	f := SMILES(string(long))
	assert.Len(t, f.Value.(string), 259)
}

func TestLogOperationDuration(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	LogOperationDuration(l, "analyze", time.Now())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "operation completed", entry.Message)
	assert.Equal(t, "analyze", entry.ContextMap()["operation"])

	LogOperationDuration(l, "batch", time.Now().Add(-2*SlowOperationThreshold))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.WithError(errors.New("x")))
	assert.Equal(t, l, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newBufferLogger(LevelInfo)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
