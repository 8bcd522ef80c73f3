// Package postgres stores the compound library in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = sql.Open

// PostgresConfig is the "database" configuration section.
type PostgresConfig struct {
	Enabled          bool          `mapstructure:"enabled" yaml:"enabled"`
	Host             string        `mapstructure:"host" yaml:"host"`
	Port             int           `mapstructure:"port" yaml:"port"`
	Database         string        `mapstructure:"database" yaml:"database"`
	Username         string        `mapstructure:"username" yaml:"username"`
	Password         string        `mapstructure:"password" yaml:"password"`
	SSLMode          string        `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout" yaml:"statement_timeout"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout"`
	AutoMigrate      bool          `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	db     *sql.DB
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens the pool, applies pool limits and verifies it with a
// ping. With AutoMigrate set the embedded migrations run before returning.
func NewConnection(ctx context.Context, cfg PostgresConfig, log logging.Logger) (*Connection, error) {
	db, err := sqlOpen("pgx", buildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed").
			WithDetail(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	}

	log.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
		logging.Int("max_open_conns", maxOpen),
	)

	conn := &Connection{db: db, logger: log}
	if cfg.AutoMigrate {
		if err := conn.Migrate(); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// NewConnectionWithDB wraps an existing pool.
func NewConnectionWithDB(db *sql.DB, log logging.Logger) *Connection {
	return &Connection{db: db, logger: log}
}

// DB returns the underlying pool.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// HealthCheck pings the database.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}
	return nil
}

// Close closes the pool. Later calls are no-ops.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		err = c.db.Close()
		if err != nil {
			c.logger.Error("failed to close PostgreSQL connection", logging.Err(err))
			return
		}
		c.logger.Info("PostgreSQL connection closed")
	})
	return err
}

func buildDSN(cfg PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	statementTimeout := cfg.StatementTimeout
	if statementTimeout <= 0 {
		statementTimeout = 30 * time.Second
	}
	lockTimeout := cfg.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = 10 * time.Second
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("statement_timeout", fmt.Sprintf("%d", statementTimeout.Milliseconds()))
	q.Set("lock_timeout", fmt.Sprintf("%d", lockTimeout.Milliseconds()))
	u.RawQuery = q.Encode()
	return u.String()
}

//Personal.AI order the ending
