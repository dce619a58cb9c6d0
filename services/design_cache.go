package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/imaging"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
)

// DesignCache holds normalized design buffers so repeated submissions
// against the same facility skip the download and decode.
type DesignCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, buf []byte)
}

// DesignCacheKey is the cache key for a design normalized to size x size
func DesignCacheKey(imageKey string, size int) string {
	return fmt.Sprintf("reconcile:design:%d:%s", size, imageKey)
}

// RedisDesignCache is a DesignCache stored in Redis. Errors are logged and
// treated as misses; the cache never fails a submission.
type RedisDesignCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisDesignCache creates a Redis-backed design cache
func NewRedisDesignCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisDesignCache {
	return &RedisDesignCache{rdb: rdb, ttl: ttl, logger: logger.With("system", "design-cache")}
}

func (c *RedisDesignCache) Get(ctx context.Context, key string) ([]byte, bool) {
	buf, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return buf, true
}

func (c *RedisDesignCache) Set(ctx context.Context, key string, buf []byte) {
	if err := c.rdb.Set(ctx, key, buf, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// DesignLoader fetches and normalizes the design images of candidate items
type DesignLoader struct {
	images  ImageService
	cache   DesignCache
	size    int
	workers int
	logger  *slog.Logger
}

// NewDesignLoader creates a loader. cache may be nil.
func NewDesignLoader(images ImageService, cache DesignCache, size, workers int, logger *slog.Logger) *DesignLoader {
	if size <= 0 {
		size = imaging.DefaultSize
	}
	if workers <= 0 {
		workers = 1
	}
	return &DesignLoader{
		images:  images,
		cache:   cache,
		size:    size,
		workers: workers,
		logger:  logger.With("system", "design-loader"),
	}
}

// Load returns one normalized buffer per item, in item order. A design that
// cannot be fetched or decoded yields a nil buffer; only context
// cancellation fails the whole load.
func (l *DesignLoader) Load(ctx context.Context, items []models.OrderItem) ([][]byte, error) {
	buffers := make([][]byte, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buffers[i] = l.loadOne(gctx, items[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buffers, nil
}

func (l *DesignLoader) loadOne(ctx context.Context, item models.OrderItem) []byte {
	cacheKey := DesignCacheKey(item.DesignImageKey, l.size)
	if l.cache != nil {
		if buf, ok := l.cache.Get(ctx, cacheKey); ok && len(buf) == l.size*l.size {
			return buf
		}
	}

	raw, err := l.images.LoadImage(ctx, item.DesignImageKey)
	if err != nil {
		l.logger.Warn("design image unavailable", "order_item_id", item.ID, "key", item.DesignImageKey, "error", err)
		return nil
	}

	buf, err := imaging.Normalize(raw, l.size)
	if err != nil {
		l.logger.Warn("design image not decodable", "order_item_id", item.ID, "key", item.DesignImageKey, "error", err)
		return nil
	}

	if l.cache != nil {
		l.cache.Set(ctx, cacheKey, buf)
	}
	return buf
}
