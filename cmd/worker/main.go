// Command worker consumes descriptor requests from Kafka, analyzes the
// molecules and publishes the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/bootstrap"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
)

const defaultWorkerConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultWorkerConfigPath, "path to configuration file (empty: environment only)")
	libraryPath := flag.String("library", "", "YAML compound library, overrides library.path")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, level, err := logging.NewLeveledLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	if err := run(cfg, *configPath, *libraryPath, logger, level); err != nil {
		logger.Error("worker stopped with error", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("molgraph worker stopped")
}

func run(cfg *config.Config, configPath, libraryPath string, logger logging.Logger, level logging.AtomicLevel) error {
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka.enabled must be set for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewNopChemMetrics()
	var collector prometheus.MetricsCollector
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(cfg.Metrics.CollectorConfig(), logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		collector = c
		metrics = prometheus.NewChemMetrics(c)
	}

	opts := []bootstrap.Option{bootstrap.WithMetrics(metrics)}
	if libraryPath != "" {
		opts = append(opts, bootstrap.WithLibraryPath(libraryPath))
	}
	container, err := bootstrap.New(ctx, cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("infrastructure: %w", err)
	}
	defer container.Close()

	svc, err := container.Service()
	if err != nil {
		return fmt.Errorf("molecule service: %w", err)
	}

	if cfg.Kafka.AutoCreateTopics {
		if err := ensureTopics(ctx, cfg, logger); err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(cfg.Kafka.ProducerConfig(), logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(cfg.Kafka.ConsumerConfig(), producer, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}

	worker := appmol.NewDescriptorWorker(svc, producer, logger,
		appmol.WithDeduplicator(container.Deduplicator()),
		appmol.WithWorkerMetrics(metrics),
		appmol.WithSource(cfg.Worker.Source),
	)
	worker.Register(consumer)

	if configPath != "" {
		config.Watch(configPath, func(next *config.Config) {
			if next.Log.Level != cfg.Log.Level {
				level.SetLevel(next.Log.Level)
				logger.Info("log level changed", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("ignoring invalid configuration change", logging.Err(err))
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	if collector != nil {
		g.Go(func() error {
			return prometheus.Serve(gctx, cfg.Metrics.Addr, cfg.Metrics.Path, collector, logger, container.HealthCheck)
		})
	}
	g.Go(func() error {
		return container.WatchLibrary(gctx)
	})
	if err := consumer.Start(gctx); err != nil {
		stop()
		_ = g.Wait()
		return fmt.Errorf("kafka consumer: %w", err)
	}
	logger.Info("molgraph worker started",
		logging.String("group", cfg.Kafka.GroupID),
		logging.String("topic", kafka.TopicDescriptorRequested))

	<-gctx.Done()
	logger.Info("shutting down")

	done := make(chan error, 1)
	go func() { done <- consumer.Close() }()
	select {
	case err := <-done:
		if err != nil {
			logger.Warn("kafka consumer close failed", logging.Err(err))
		}
	case <-time.After(cfg.Worker.ShutdownTimeout):
		logger.Warn("shutdown timeout exceeded, abandoning in-flight messages",
			logging.Duration("timeout", cfg.Worker.ShutdownTimeout))
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func ensureTopics(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
	if err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	defer tm.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := tm.EnsureDefaultTopics(ctx); err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	return nil
}

//Personal.AI order the ending
