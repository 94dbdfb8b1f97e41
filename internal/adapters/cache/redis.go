package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pettycash:reports"

// RedisReportCache keys entries by an organization generation counter, so
// invalidation is a single INCR and stale entries expire on their own.
type RedisReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ portssvc.ReportCache = (*RedisReportCache)(nil)

// NewRedisReportCache returns a cache whose entries live for ttl.
func NewRedisReportCache(rdb *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{rdb: rdb, ttl: ttl}
}

func generationKey(organizationID string) string {
	return fmt.Sprintf("%s:%s:gen", keyPrefix, organizationID)
}

func (c *RedisReportCache) entryKey(ctx context.Context, organizationID, key string) (string, error) {
	gen, err := c.rdb.Get(ctx, generationKey(organizationID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", errors.Wrap(err, "read cache generation")
	}
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, organizationID, gen, key), nil
}

// Get decodes the cached value into dst and reports whether it was present.
// The entry key carries the generation read here, so a report stored with it
// after an Invalidate lands in a generation nobody reads anymore.
func (c *RedisReportCache) Get(ctx context.Context, organizationID, key string, dst any) (string, bool, error) {
	k, err := c.entryKey(ctx, organizationID, key)
	if err != nil {
		return "", false, err
	}
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return k, false, nil
	}
	if err != nil {
		return k, false, errors.Wrap(err, "get cached report")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return k, false, errors.Wrap(err, "decode cached report")
	}
	return k, true, nil
}

// Set stores value under an entry key returned by Get.
func (c *RedisReportCache) Set(ctx context.Context, entryKey string, value any) error {
	if entryKey == "" {
		return errors.New("empty cache entry key")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	return errors.Wrap(c.rdb.Set(ctx, entryKey, raw, c.ttl).Err(), "set cached report")
}

// Invalidate moves the organization to a new generation.
func (c *RedisReportCache) Invalidate(ctx context.Context, organizationID string) error {
	return errors.Wrap(c.rdb.Incr(ctx, generationKey(organizationID)).Err(), "bump cache generation")
}
