// Package testutil provides shared test doubles for molgraph.
package testutil

import (
	"sync"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry.
type MockLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
	fields   []logging.Field
	parent   *MockLogger
}

// LogMessage is one captured entry.
type LogMessage struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates a new MockLogger instance.
func NewMockLogger() *MockLogger {
	return &MockLogger{Messages: make([]LogMessage, 0)}
}

func (m *MockLogger) root() *MockLogger {
	if m.parent != nil {
		return m.parent.root()
	}
	return m
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := append(append([]logging.Field{}, m.fields...), fields...)
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, LogMessage{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

// With returns a child whose entries land in the same root buffer.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return &MockLogger{parent: m, fields: append(append([]logging.Field{}, m.fields...), fields...)}
}

func (m *MockLogger) WithError(err error) logging.Logger {
	if err == nil {
		return m
	}
	return m.With(logging.Err(err))
}

func (m *MockLogger) Named(string) logging.Logger { return m }

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]LogMessage, len(r.Messages))
	copy(result, r.Messages)
	return result
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = r.Messages[:0]
}

// HasMessage checks if a message with the given level and content was logged.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, logged := range m.GetMessages() {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

// FieldValue returns the value of key on the first entry with msg.
func (m *MockLogger) FieldValue(msg, key string) (interface{}, bool) {
	for _, logged := range m.GetMessages() {
		if logged.Message != msg {
			continue
		}
		for _, f := range logged.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	}
	return nil, false
}

//Personal.AI order the ending
