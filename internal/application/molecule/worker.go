package molecule

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	redisinfra "github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request de-duplication
// ─────────────────────────────────────────────────────────────────────────────

// ReleaseFunc gives up a claim so that a redelivery can be processed again.
type ReleaseFunc func(ctx context.Context) error

// Deduplicator claims request ids so that redelivered messages are handled
// once. ok is false when the id was already claimed.
type Deduplicator interface {
	Claim(ctx context.Context, requestID string) (release ReleaseFunc, ok bool, err error)
}

// RedisDeduplicator shares claims between worker replicas.
type RedisDeduplicator struct {
	client *redisinfra.Client
	ttl    time.Duration
}

func NewRedisDeduplicator(client *redisinfra.Client, ttl time.Duration) *RedisDeduplicator {
	return &RedisDeduplicator{client: client, ttl: ttl}
}

func (d *RedisDeduplicator) Claim(ctx context.Context, requestID string) (ReleaseFunc, bool, error) {
	c := redisinfra.NewClaim(d.client, "descriptor:"+requestID, d.ttl)
	ok, err := c.TryAcquire(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	return c.Release, true, nil
}

// MemoryDeduplicator remembers claims in process, bounded by size.
type MemoryDeduplicator struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func NewMemoryDeduplicator(size int, ttl time.Duration) *MemoryDeduplicator {
	return &MemoryDeduplicator{seen: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

func (d *MemoryDeduplicator) Claim(_ context.Context, requestID string) (ReleaseFunc, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(requestID) {
		return nil, false, nil
	}
	d.seen.Add(requestID, struct{}{})
	return func(context.Context) error {
		d.seen.Remove(requestID)
		return nil
	}, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Worker
// ─────────────────────────────────────────────────────────────────────────────

// DescriptorWorker answers descriptor requests from Kafka.
type DescriptorWorker struct {
	svc       Service
	publisher kafka.Publisher
	dedup     Deduplicator
	metrics   *prometheus.ChemMetrics
	logger    logging.Logger
	source    string
}

type WorkerOption func(*DescriptorWorker)

func WithDeduplicator(d Deduplicator) WorkerOption {
	return func(w *DescriptorWorker) { w.dedup = d }
}

func WithWorkerMetrics(m *prometheus.ChemMetrics) WorkerOption {
	return func(w *DescriptorWorker) {
		if m != nil {
			w.metrics = m
		}
	}
}

// WithSource sets the source recorded on published envelopes.
func WithSource(source string) WorkerOption {
	return func(w *DescriptorWorker) { w.source = source }
}

func NewDescriptorWorker(svc Service, publisher kafka.Publisher, logger logging.Logger, opts ...WorkerOption) *DescriptorWorker {
	w := &DescriptorWorker{
		svc:       svc,
		publisher: publisher,
		metrics:   prometheus.NewNopChemMetrics(),
		logger:    logger.Named("descriptor_worker"),
		source:    "molgraph-worker",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register subscribes the worker to descriptor requests.
func (w *DescriptorWorker) Register(c *kafka.Consumer) {
	c.Subscribe(kafka.TopicDescriptorRequested, w.Handle)
}

// Handle processes one request message. Analysis failures are answered with a
// failed event and are not errors; a returned error means the message should
// be retried.
func (w *DescriptorWorker) Handle(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		w.metrics.RecordWorkerMessage(prometheus.OutcomeDecode)
		w.logger.Warn("undecodable descriptor request",
			logging.Int64("offset", msg.Offset), logging.Err(err))
		return err
	}
	if env.EventType != kafka.EventDescriptorRequested {
		w.logger.Debug("ignoring event", logging.String("event_type", env.EventType))
		return nil
	}
	var req kafka.DescriptorRequest
	if err := env.DecodePayload(&req); err != nil {
		w.metrics.RecordWorkerMessage(prometheus.OutcomeDecode)
		w.logger.Warn("undecodable descriptor payload",
			logging.String("event_id", env.EventID), logging.Err(err))
		return err
	}
	if req.RequestID == "" {
		req.RequestID = env.EventID
	}

	release := ReleaseFunc(func(context.Context) error { return nil })
	if w.dedup != nil {
		rel, ok, err := w.dedup.Claim(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if !ok {
			w.metrics.RecordWorkerMessage(prometheus.OutcomeDuplicate)
			w.logger.Debug("duplicate descriptor request", logging.String("request_id", req.RequestID))
			return nil
		}
		release = rel
	}

	if err := w.answer(ctx, env, req); err != nil {
		if rerr := release(ctx); rerr != nil {
			w.logger.Warn("failed to release request claim",
				logging.String("request_id", req.RequestID), logging.Err(rerr))
		}
		return err
	}
	return nil
}

func (w *DescriptorWorker) answer(ctx context.Context, in *kafka.EventEnvelope, req kafka.DescriptorRequest) error {
	start := time.Now()
	dto, err := w.svc.Analyze(ctx, req.SMILES)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		detail := common.NewErrorDetail(err)
		w.logger.Info("descriptor request failed",
			logging.String("request_id", req.RequestID),
			logging.String("code", detail.Code))
		if perr := w.publish(ctx, in, kafka.TopicDescriptorFailed, kafka.EventDescriptorFailed, req.RequestID, kafka.DescriptorFailed{
			RequestID: req.RequestID,
			SMILES:    req.SMILES,
			Code:      detail.Code,
			Message:   detail.Message,
			Detail:    detail.Detail,
		}); perr != nil {
			return perr
		}
		w.metrics.RecordWorkerMessage(prometheus.OutcomeFailed)
		return nil
	}

	if err := w.publish(ctx, in, kafka.TopicDescriptorComputed, kafka.EventDescriptorComputed, req.RequestID, kafka.DescriptorComputed{
		RequestID:  req.RequestID,
		SMILES:     req.SMILES,
		Analysis:   dto,
		DurationMs: time.Since(start).Milliseconds(),
	}); err != nil {
		return err
	}
	w.metrics.RecordWorkerMessage(prometheus.OutcomeComputed)
	return nil
}

func (w *DescriptorWorker) publish(ctx context.Context, in *kafka.EventEnvelope, topic, eventType, key string, payload interface{}) error {
	env, err := kafka.NewEventEnvelope(eventType, w.source, payload)
	if err != nil {
		return err
	}
	env.TraceID = in.TraceID
	env.Metadata = map[string]string{"request_event_id": in.EventID}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}
	return w.publisher.Publish(ctx, msg)
}

//Personal.AI order the ending
