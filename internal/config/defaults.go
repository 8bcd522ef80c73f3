package config

import (
	"time"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = "json"

	DefaultMetric           = "tanimoto"
	DefaultBatchConcurrency = 8
	DefaultMaxBatchSize     = 1000

	DefaultLocalCacheSize = 4096
	DefaultLocalCacheTTL  = 10 * time.Minute

	DefaultRedisMode = "standalone"
	DefaultRedisAddr = "localhost:6379"
	DefaultRedisTTL  = time.Hour
	DefaultKeyPrefix = "molgraph:"

	DefaultDBHost    = "localhost"
	DefaultDBPort    = 5432
	DefaultDBName    = "molgraph"
	DefaultDBSSLMode = "disable"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "molgraph-descriptor-worker"

	DefaultDedupTTL        = 24 * time.Hour
	DefaultShutdownTimeout = 15 * time.Second
	DefaultWorkerSource    = "molgraph-worker"

	DefaultMetricsAddr      = ":9090"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "molgraph"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicit values are left alone. Booleans and integers whose zero value is
// meaningful (redis.db, library.watch) are never touched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Chemistry ─────────────────────────────────────────────────────────────
	// A radius of 0 is a legal setting, so only fill it alongside the length.
	if cfg.Chemistry.FingerprintBits == 0 {
		cfg.Chemistry.FingerprintBits = molecule.DefaultFingerprintBits
		if cfg.Chemistry.FingerprintRadius == 0 {
			cfg.Chemistry.FingerprintRadius = molecule.DefaultFingerprintRadius
		}
	}
	if cfg.Chemistry.DefaultMetric == "" {
		cfg.Chemistry.DefaultMetric = DefaultMetric
	}
	if cfg.Chemistry.BatchConcurrency == 0 {
		cfg.Chemistry.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.Chemistry.MaxBatchSize == 0 {
		cfg.Chemistry.MaxBatchSize = DefaultMaxBatchSize
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.LocalSize == 0 {
		cfg.Cache.LocalSize = DefaultLocalCacheSize
	}
	if cfg.Cache.LocalTTL == 0 {
		cfg.Cache.LocalTTL = DefaultLocalCacheTTL
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" && cfg.Redis.Mode == DefaultRedisMode {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultKeyPrefix
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.Acks == "" {
		cfg.Kafka.Acks = "all"
	}
	if cfg.Kafka.Retry.DeadLetterTopic == "" {
		cfg.Kafka.Retry.DeadLetterTopic = kafka.TopicDeadLetter
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.DedupTTL == 0 {
		cfg.Worker.DedupTTL = DefaultDedupTTL
	}
	if cfg.Worker.ShutdownTimeout == 0 {
		cfg.Worker.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Worker.Source == "" {
		cfg.Worker.Source = DefaultWorkerSource
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Library ───────────────────────────────────────────────────────────────
	if cfg.Library.Backend == "" {
		cfg.Library.Backend = LibraryBackendMemory
	}
}

// Default returns a Config with every default applied and nothing enabled.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
