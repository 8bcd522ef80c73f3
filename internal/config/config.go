// Package config defines the configuration structures for molgraph. No I/O
// lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	"github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
)

// ChemistryConfig tunes parsing and descriptor computation.
type ChemistryConfig struct {
	StrictElements    bool   `mapstructure:"strict_elements"`
	FingerprintRadius int    `mapstructure:"fingerprint_radius"`
	FingerprintBits   int    `mapstructure:"fingerprint_bits"`
	DefaultMetric     string `mapstructure:"default_metric"` // "tanimoto" | "cosine"
	BatchConcurrency  int    `mapstructure:"batch_concurrency"`
	MaxBatchSize      int    `mapstructure:"max_batch_size"`
}

// FingerprintOptions returns the configured fingerprint parameters.
func (c ChemistryConfig) FingerprintOptions() molecule.FingerprintCalcOptions {
	return molecule.FingerprintCalcOptions{Radius: c.FingerprintRadius, Bits: c.FingerprintBits}
}

// CacheConfig sizes the in-process analysis cache. The shared tier lives in
// the redis section.
type CacheConfig struct {
	LocalSize int           `mapstructure:"local_size"`
	LocalTTL  time.Duration `mapstructure:"local_ttl"`
}

// KafkaConfig holds the broker settings shared by the worker's consumer and
// producer.
type KafkaConfig struct {
	Enabled          bool                 `mapstructure:"enabled"`
	Brokers          []string             `mapstructure:"brokers"`
	GroupID          string               `mapstructure:"group_id"`
	AutoOffsetReset  string               `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	Acks             string               `mapstructure:"acks"`
	Compression      string               `mapstructure:"compression"`
	AutoCreateTopics bool                 `mapstructure:"auto_create_topics"`
	Retry            kafka.RetryConfig    `mapstructure:"retry"`
	Security         kafka.SecurityConfig `mapstructure:"security"`
}

// ProducerConfig derives the producer settings.
func (k KafkaConfig) ProducerConfig() kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:          k.Brokers,
		Acks:             k.Acks,
		CompressionCodec: k.Compression,
		Security:         k.Security,
	}
}

// ConsumerConfig derives the consumer settings for the descriptor request
// topic.
func (k KafkaConfig) ConsumerConfig() kafka.ConsumerConfig {
	return kafka.ConsumerConfig{
		Brokers:         k.Brokers,
		GroupID:         k.GroupID,
		Topics:          []string{kafka.TopicDescriptorRequested},
		AutoOffsetReset: k.AutoOffsetReset,
		Retry:           k.Retry,
		Security:        k.Security,
	}
}

// WorkerConfig holds descriptor-worker parameters.
type WorkerConfig struct {
	// DedupTTL is how long a request ID stays claimed after processing.
	DedupTTL        time.Duration `mapstructure:"dedup_ttl"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Source          string        `mapstructure:"source"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Addr                 string `mapstructure:"addr"`
	Path                 string `mapstructure:"path"`
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// CollectorConfig derives the collector settings.
func (m MetricsConfig) CollectorConfig() prometheus.CollectorConfig {
	return prometheus.CollectorConfig{
		Namespace:            m.Namespace,
		EnableProcessMetrics: m.EnableProcessMetrics,
		EnableGoMetrics:      m.EnableGoMetrics,
	}
}

// Library backends.
const (
	LibraryBackendMemory   = "memory"
	LibraryBackendPostgres = "postgres"
)

// LibraryConfig selects where the compound library lives.
type LibraryConfig struct {
	Backend string `mapstructure:"backend"`
	// Path is a YAML library file loaded into the memory backend.
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// Config is the root configuration structure.
type Config struct {
	Log       logging.LogConfig       `mapstructure:"log"`
	Chemistry ChemistryConfig         `mapstructure:"chemistry"`
	Cache     CacheConfig             `mapstructure:"cache"`
	Redis     redis.RedisConfig       `mapstructure:"redis"`
	Database  postgres.PostgresConfig `mapstructure:"database"`
	Kafka     KafkaConfig             `mapstructure:"kafka"`
	Worker    WorkerConfig            `mapstructure:"worker"`
	Metrics   MetricsConfig           `mapstructure:"metrics"`
	Library   LibraryConfig           `mapstructure:"library"`
}

// Validate performs semantic validation of a fully populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if err := c.Chemistry.FingerprintOptions().Validate(); err != nil {
		return fmt.Errorf("config: chemistry fingerprint: %w", err)
	}
	if !molecule.SimilarityMetric(c.Chemistry.DefaultMetric).IsValid() {
		return fmt.Errorf("config: chemistry.default_metric %q is invalid; expected tanimoto|cosine", c.Chemistry.DefaultMetric)
	}
	if c.Chemistry.BatchConcurrency < 1 {
		return fmt.Errorf("config: chemistry.batch_concurrency must be >= 1, got %d", c.Chemistry.BatchConcurrency)
	}
	if c.Chemistry.MaxBatchSize < 1 {
		return fmt.Errorf("config: chemistry.max_batch_size must be >= 1, got %d", c.Chemistry.MaxBatchSize)
	}
	if c.Cache.LocalSize < 0 {
		return fmt.Errorf("config: cache.local_size must be >= 0, got %d", c.Cache.LocalSize)
	}

	if c.Redis.Enabled {
		switch c.Redis.Mode {
		case "standalone":
			if c.Redis.Addr == "" {
				return fmt.Errorf("config: redis.addr is required")
			}
		case "cluster":
			if len(c.Redis.ClusterAddrs) == 0 {
				return fmt.Errorf("config: redis.cluster_addrs is required in cluster mode")
			}
		default:
			return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|cluster", c.Redis.Mode)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.Database == "" {
			return fmt.Errorf("config: database.database is required")
		}
		if c.Database.Username == "" {
			return fmt.Errorf("config: database.username is required")
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics.addr is required when metrics are enabled")
	}

	switch c.Library.Backend {
	case LibraryBackendMemory:
	case LibraryBackendPostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("config: library.backend postgres requires database.enabled")
		}
	default:
		return fmt.Errorf("config: library.backend %q is invalid; expected memory|postgres", c.Library.Backend)
	}
	if c.Library.Watch && c.Library.Path == "" {
		return fmt.Errorf("config: library.watch requires library.path")
	}
	return nil
}

//Personal.AI order the ending
