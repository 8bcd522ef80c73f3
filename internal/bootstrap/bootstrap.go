// Package bootstrap assembles the infrastructure named by a Config into a
// ready molecule service. The CLI and the worker share it.
package bootstrap

import (
	"context"
	"time"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/config"
	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/database/memory"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Container owns the connections opened for one process.
type Container struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *prometheus.ChemMetrics

	// Redis is nil when the shared cache is disabled or unreachable.
	Redis *redisinfra.Client
	// DB is set for the postgres library backend only.
	DB *postgres.Connection
	// Memory is set for the memory library backend only.
	Memory  *memory.LibraryRepo
	Library domainMol.LibraryRepository

	libraryPath   string
	redisRequired bool
	closers       []func() error
}

type Option func(*Container)

// WithLibraryPath loads path into a memory library regardless of the
// configured backend.
func WithLibraryPath(path string) Option {
	return func(c *Container) { c.libraryPath = path }
}

// WithRedisRequired makes an unreachable Redis fatal instead of a warning.
func WithRedisRequired() Option {
	return func(c *Container) { c.redisRequired = true }
}

func WithMetrics(m *prometheus.ChemMetrics) Option {
	return func(c *Container) {
		if m != nil {
			c.Metrics = m
		}
	}
}

// New opens Redis and the compound library as configured. On error every
// connection opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: prometheus.NewNopChemMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.openRedis(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.openLibrary(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) openRedis() error {
	if !c.Config.Redis.Enabled {
		return nil
	}
	rcfg := c.Config.Redis
	client, err := redisinfra.NewClient(&rcfg, c.Logger)
	if err != nil {
		if c.redisRequired {
			return err
		}
		c.Logger.Warn("continuing without shared analysis cache", logging.Err(err))
		return nil
	}
	c.Redis = client
	c.closers = append(c.closers, client.Close)
	return nil
}

func (c *Container) openLibrary(ctx context.Context) error {
	opts := c.Config.Chemistry.FingerprintOptions()
	path := c.libraryPath
	backend := c.Config.Library.Backend
	if path != "" {
		backend = config.LibraryBackendMemory
	} else {
		path = c.Config.Library.Path
	}

	switch backend {
	case config.LibraryBackendPostgres:
		conn, err := postgres.NewConnection(ctx, c.Config.Database, c.Logger)
		if err != nil {
			return err
		}
		c.DB = conn
		c.closers = append(c.closers, conn.Close)
		c.Library = repositories.NewPostgresLibraryRepo(conn, c.Logger)
	default:
		repo := memory.NewLibraryRepo()
		if path != "" {
			entries, err := memory.LoadLibraryFile(path, opts)
			if err != nil {
				return err
			}
			if err := repo.Replace(entries); err != nil {
				return err
			}
			c.Logger.Debug("library loaded", logging.String("path", path), logging.Int("compounds", len(entries)))
		}
		c.Memory = repo
		c.Library = repo
	}

	if n, err := c.Library.Count(ctx); err == nil {
		c.Metrics.SetLibrarySize(int(n))
	}
	return nil
}

// AnalysisStore returns the shared analysis cache, or nil without Redis.
func (c *Container) AnalysisStore() appmol.AnalysisStore {
	if c.Redis == nil {
		return nil
	}
	cache := redisinfra.NewRedisCache(c.Redis, c.Logger,
		redisinfra.WithPrefix(c.Config.Redis.KeyPrefix),
		redisinfra.WithDefaultTTL(c.Config.Redis.TTL))
	return redisinfra.NewAnalysisCache(cache, c.Config.Redis.TTL)
}

// Service builds the molecule service on top of the container.
func (c *Container) Service() (appmol.Service, error) {
	opts := []appmol.Option{
		appmol.WithLibrary(c.Library),
		appmol.WithMetrics(c.Metrics),
	}
	if store := c.AnalysisStore(); store != nil {
		opts = append(opts, appmol.WithAnalysisStore(store))
	}
	return appmol.NewService(appmol.ConfigFrom(c.Config), c.Logger, opts...)
}

// Deduplicator returns a Redis-backed deduplicator when Redis is available
// and an in-process one otherwise.
func (c *Container) Deduplicator() appmol.Deduplicator {
	if c.Redis != nil {
		return appmol.NewRedisDeduplicator(c.Redis, c.Config.Worker.DedupTTL)
	}
	return appmol.NewMemoryDeduplicator(c.Config.Cache.LocalSize, c.Config.Worker.DedupTTL)
}

// WatchLibrary reloads the memory library whenever its file changes, until ctx
// is done. It returns immediately when watching is not configured.
func (c *Container) WatchLibrary(ctx context.Context) error {
	path := c.libraryPath
	if path == "" {
		path = c.Config.Library.Path
	}
	if c.Memory == nil || path == "" || !c.Config.Library.Watch {
		return nil
	}
	w, err := memory.NewFileWatcher(path, c.Memory, c.Config.Chemistry.FingerprintOptions(), c.Logger,
		memory.WithReloadHook(func(count int, err error) {
			if err == nil {
				c.Metrics.SetLibrarySize(count)
			}
		}))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// HealthCheck pings every open connection.
func (c *Container) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx); err != nil {
			return errors.Wrap(err, errors.ErrCodeCacheError, "redis health check failed")
		}
	}
	if c.DB != nil {
		if err := c.DB.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases connections in reverse order of opening.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

//Personal.AI order the ending
