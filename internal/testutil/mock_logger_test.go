package testutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/testutil"
)

var _ logging.Logger = (*testutil.MockLogger)(nil)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareBuffer(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.With(logging.String("component", "worker"))
	child.WithError(errors.New("boom")).Warn("retrying")

	assert.True(t, logger.HasMessage("warn", "retrying"))
	v, ok := logger.FieldValue("retrying", "component")
	assert.True(t, ok)
	assert.Equal(t, "worker", v)
	_, ok = logger.FieldValue("retrying", "error")
	assert.True(t, ok)
}

//Personal.AI order the ending
