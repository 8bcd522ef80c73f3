package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// Cache is a JSON key-value cache.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

type redisCache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

type CacheOption func(*redisCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// NewRedisCache builds a Cache over client. Keys are prefixed with
// "molgraph:" unless WithPrefix says otherwise.
func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:     client,
		logger:     log,
		prefix:     "molgraph:",
		defaultTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations by up to 10% either way.
func (c *redisCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	data, err := rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis get failed").WithDetail(key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache entry is not valid JSON").WithDetail(key)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cannot encode cache entry").WithDetail(key)
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := rdb.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis set failed").WithDetail(key)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	return rdb.Del(ctx, full...).Err()
}

// GetOrSet reads key into dest, or runs loader once per key across
// concurrent callers, stores its result, and decodes it into dest.
func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("cache read failed, loading directly", logging.String("key", key), logging.Err(err))
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("failed to populate cache", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cannot encode loaded value")
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	rdb, err := c.client.Raw()
	if err != nil {
		return 0, err
	}
	var deleted int64
	var cursor uint64
	match := c.fullKey(prefix) + "*"
	for {
		keys, next, err := rdb.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AnalysisCache
// ─────────────────────────────────────────────────────────────────────────────

const analysisKeyPrefix = "analysis:"

// AnalysisCache stores analysis results keyed by the exact input string and
// fingerprint parameters.
type AnalysisCache struct {
	cache Cache
	ttl   time.Duration
}

func NewAnalysisCache(cache Cache, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{cache: cache, ttl: ttl}
}

// AnalysisKey hashes smiles so arbitrarily long inputs give bounded keys. The
// length is part of the key to make accidental collisions even less likely.
func AnalysisKey(smiles string, radius, bits int) string {
	return analysisKeyPrefix +
		strconv.FormatUint(xxhash.Sum64String(smiles), 16) + ":" +
		strconv.Itoa(len(smiles)) + ":" +
		fmt.Sprintf("r%d:b%d", radius, bits)
}

// Get returns ErrCacheMiss when nothing is stored.
func (a *AnalysisCache) Get(ctx context.Context, smiles string, radius, bits int) (*moltypes.AnalysisDTO, error) {
	var out moltypes.AnalysisDTO
	if err := a.cache.Get(ctx, AnalysisKey(smiles, radius, bits), &out); err != nil {
		return nil, err
	}
	if out.SMILES != smiles {
		return nil, ErrCacheMiss
	}
	return &out, nil
}

func (a *AnalysisCache) Put(ctx context.Context, radius, bits int, result *moltypes.AnalysisDTO) error {
	return a.cache.Set(ctx, AnalysisKey(result.SMILES, radius, bits), result, a.ttl)
}

// Purge drops every cached analysis.
func (a *AnalysisCache) Purge(ctx context.Context) (int64, error) {
	return a.cache.DeleteByPrefix(ctx, analysisKeyPrefix)
}

//Personal.AI order the ending
