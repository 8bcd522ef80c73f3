package molecule

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisinfra "github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []*kafka.ProducerMessage
	failures int
}

func (p *recordingPublisher) Publish(_ context.Context, msg *kafka.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New(errors.ErrCodeMessagingError, "broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) sent() []*kafka.ProducerMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*kafka.ProducerMessage(nil), p.messages...)
}

func requestMessage(t *testing.T, eventType string, req kafka.DescriptorRequest) *kafka.Message {
	t.Helper()
	env, err := kafka.NewEventEnvelope(eventType, "test", req)
	require.NoError(t, err)
	env.TraceID = "trace-1"
	pm, err := env.ToMessage(kafka.TopicDescriptorRequested, req.RequestID)
	require.NoError(t, err)
	return &kafka.Message{Topic: pm.Topic, Key: pm.Key, Value: pm.Value, Headers: pm.Headers}
}

func decodeSent(t *testing.T, msg *kafka.ProducerMessage, target interface{}) *kafka.EventEnvelope {
	t.Helper()
	var env kafka.EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.NoError(t, env.DecodePayload(target))
	return &env
}

func newTestWorker(t *testing.T, pub kafka.Publisher, opts ...WorkerOption) *DescriptorWorker {
	t.Helper()
	return NewDescriptorWorker(newTestService(t, nil), pub, testutil.NewMockLogger(), opts...)
}

func TestWorker_Computed(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub, WithSource("unit"))

	msg := requestMessage(t, kafka.EventDescriptorRequested, kafka.DescriptorRequest{RequestID: "r1", SMILES: "CCO"})
	require.NoError(t, w.Handle(context.Background(), msg))

	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, kafka.TopicDescriptorComputed, sent[0].Topic)
	assert.Equal(t, []byte("r1"), sent[0].Key)
	assert.Equal(t, kafka.EventDescriptorComputed, sent[0].Headers["event_type"])
	assert.Equal(t, "trace-1", sent[0].Headers["trace_id"])

	var out kafka.DescriptorComputed
	env := decodeSent(t, sent[0], &out)
	assert.Equal(t, "unit", env.Source)
	assert.NotEmpty(t, env.Metadata["request_event_id"])
	assert.Equal(t, "r1", out.RequestID)
	require.NotNil(t, out.Analysis)
	assert.Equal(t, "C2H6O", out.Analysis.Descriptors.Formula)
}

func TestWorker_Failed(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub)

	msg := requestMessage(t, kafka.EventDescriptorRequested, kafka.DescriptorRequest{RequestID: "r2", SMILES: "C1CC"})
	require.NoError(t, w.Handle(context.Background(), msg))

	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, kafka.TopicDescriptorFailed, sent[0].Topic)

	var out kafka.DescriptorFailed
	decodeSent(t, sent[0], &out)
	assert.Equal(t, "r2", out.RequestID)
	assert.Equal(t, string(errors.ErrCodeMoleculeInvalidSMILES), out.Code)
	assert.NotEmpty(t, out.Detail)
}

func TestWorker_MissingRequestIDUsesEventID(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub)

	env, err := kafka.NewEventEnvelope(kafka.EventDescriptorRequested, "test", kafka.DescriptorRequest{SMILES: "C"})
	require.NoError(t, err)
	pm, err := env.ToMessage(kafka.TopicDescriptorRequested, "")
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), &kafka.Message{Value: pm.Value}))
	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []byte(env.EventID), sent[0].Key)
}

func TestWorker_IgnoresOtherEvents(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub)

	msg := requestMessage(t, kafka.EventDescriptorComputed, kafka.DescriptorRequest{RequestID: "r3", SMILES: "CCO"})
	require.NoError(t, w.Handle(context.Background(), msg))
	assert.Empty(t, pub.sent())
}

func TestWorker_UndecodableMessage(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub)

	err := w.Handle(context.Background(), &kafka.Message{Value: []byte("not json")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))

	env := kafka.EventEnvelope{EventID: "e1", EventType: kafka.EventDescriptorRequested}
	raw, _ := json.Marshal(env)
	err = w.Handle(context.Background(), &kafka.Message{Value: raw})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Empty(t, pub.sent())
}

func TestWorker_Deduplicates(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub, WithDeduplicator(NewMemoryDeduplicator(16, time.Minute)))
	msg := requestMessage(t, kafka.EventDescriptorRequested, kafka.DescriptorRequest{RequestID: "r4", SMILES: "CCO"})

	require.NoError(t, w.Handle(context.Background(), msg))
	require.NoError(t, w.Handle(context.Background(), msg))
	assert.Len(t, pub.sent(), 1)
}

func TestWorker_PublishFailureReleasesClaim(t *testing.T) {
	pub := &recordingPublisher{failures: 1}
	w := newTestWorker(t, pub, WithDeduplicator(NewMemoryDeduplicator(16, time.Minute)))
	msg := requestMessage(t, kafka.EventDescriptorRequested, kafka.DescriptorRequest{RequestID: "r5", SMILES: "CCO"})

	err := w.Handle(context.Background(), msg)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessagingError))
	assert.Empty(t, pub.sent())

	require.NoError(t, w.Handle(context.Background(), msg))
	assert.Len(t, pub.sent(), 1)
}

func TestWorker_CancelledContext(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWorker(t, pub)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := requestMessage(t, kafka.EventDescriptorRequested, kafka.DescriptorRequest{RequestID: "r6", SMILES: "CCO"})
	assert.ErrorIs(t, w.Handle(ctx, msg), context.Canceled)
	assert.Empty(t, pub.sent())
}

func TestRedisDeduplicator(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisinfra.NewClient(&redisinfra.RedisConfig{Mode: "standalone", Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	d := NewRedisDeduplicator(client, time.Minute)
	ctx := context.Background()

	release, ok, err := d.Claim(ctx, "req-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = d.Claim(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))
	_, ok, err = d.Claim(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = d.Claim(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

//Personal.AI order the ending
