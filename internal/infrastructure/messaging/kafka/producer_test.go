package kafka

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats { return kafka.WriterStats{} }

func newTestProducer(w WriterInterface) *Producer {
	return newProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}}, logging.NewNopLogger())
}

func msg(topic, key, value string) *ProducerMessage {
	return &ProducerMessage{Topic: topic, Key: []byte(key), Value: []byte(value)}
}

func TestValidateProducerConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProducerConfig
		wantErr bool
	}{
		{"valid", ProducerConfig{Brokers: []string{"b:9092"}}, false},
		{"no brokers", ProducerConfig{}, true},
		{"negative retries", ProducerConfig{Brokers: []string{"b"}, MaxRetries: -1}, true},
		{"sasl without credentials", ProducerConfig{Brokers: []string{"b"}, Security: SecurityConfig{SASLEnabled: true, SASLMechanism: "PLAIN"}}, true},
		{"sasl unknown mechanism", ProducerConfig{Brokers: []string{"b"}, Security: SecurityConfig{SASLEnabled: true, SASLMechanism: "GSSAPI", SASLUsername: "u", SASLPassword: "p"}}, true},
		{"sasl scram", ProducerConfig{Brokers: []string{"b"}, Security: SecurityConfig{SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProducerConfig(tt.cfg)
			if tt.wantErr {
				assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewProducer_BuildsWriter(t *testing.T) {
	p, err := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, Acks: "all", CompressionCodec: "zstd"}, logging.NewNopLogger())
	require.NoError(t, err)
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, 4, w.MaxAttempts)
	assert.NoError(t, p.Close())
}

func TestNewProducer_MissingCAFile(t *testing.T) {
	_, err := NewProducer(ProducerConfig{
		Brokers:  []string{"localhost:9092"},
		Security: SecurityConfig{TLSEnabled: true, TLSCertPath: "/nonexistent/ca.pem"},
	}, logging.NewNopLogger())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestPublish_Success(t *testing.T) {
	var captured []kafka.Message
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			captured = msgs
			return nil
		},
	})

	m := msg(TopicDescriptorRequested, "req-1", "{}")
	m.Headers = map[string]string{"event_type": EventDescriptorRequested}
	require.NoError(t, p.Publish(context.Background(), m))

	require.Len(t, captured, 1)
	assert.Equal(t, TopicDescriptorRequested, captured[0].Topic)
	assert.Equal(t, "req-1", string(captured[0].Key))
	assert.False(t, captured[0].Time.IsZero())
	require.Len(t, captured[0].Headers, 1)
	assert.Equal(t, "event_type", captured[0].Headers[0].Key)
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, msg("", "k", "v")))
	assert.Error(t, p.Publish(ctx, msg("t", "k", "")))
	assert.Error(t, p.Publish(ctx, msg("t", "k", strings.Repeat("x", 1024*1024+1))))
	assert.Equal(t, int64(0), p.Sent())
}

func TestPublish_Failure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("write failed")
		},
	})
	err := p.Publish(context.Background(), msg("t", "k", "v"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessagingError))
	assert.Equal(t, int64(1), p.Failed())
}

func TestPublishJSON(t *testing.T) {
	var captured kafka.Message
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			captured = msgs[0]
			return nil
		},
	})
	require.NoError(t, p.PublishJSON(context.Background(), "t", "k", DescriptorRequest{RequestID: "r", SMILES: "CCO"}))
	assert.JSONEq(t, `{"request_id":"r","smiles":"CCO"}`, string(captured.Value))

	err := p.PublishJSON(context.Background(), "t", "k", make(chan int))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			errs := make(kafka.WriteErrors, len(msgs))
			errs[1] = errors.New("fail")
			return errs
		},
	})
	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{msg("t", "1", "1"), msg("t", "2", "2")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
}

func TestPublishBatch_TotalFailure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("broker down")
		},
	})
	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{msg("t", "1", "1"), msg("t", "2", "2")})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, -1, res.Errors[0].Index)

	_, err = p.PublishBatch(context.Background(), nil)
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	closes := 0
	p := newTestProducer(&mockKafkaWriter{closeFunc: func() error { closes++; return nil }})
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, closes)

	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), msg("t", "k", "v")))
}

//Personal.AI order the ending
