package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/catalog/domain/repository"
	"nft-drop/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const (
	keyCollections      = "catalog:collections"
	keyCollectionPrefix = "catalog:collection:"
)

// RedisCollectionCache caches content store reads in Redis.
// Cache failures never fail a read; the underlying repository is used instead.
type RedisCollectionCache struct {
	next   repository.CollectionRepository
	client redis.UniversalClient
	ttl    time.Duration
	log    logger.Logger
}

// NewRedisCollectionCache wraps next with a Redis read-through cache
func NewRedisCollectionCache(next repository.CollectionRepository, client redis.UniversalClient, ttl time.Duration, log logger.Logger) *RedisCollectionCache {
	return &RedisCollectionCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.WithComponent("catalog-cache"),
	}
}

// ListCollections returns the cached listing or fetches and stores it
func (c *RedisCollectionCache) ListCollections(ctx context.Context) ([]*model.Collection, error) {
	var cached []*model.Collection
	if c.get(ctx, keyCollections, &cached) {
		return cached, nil
	}

	collections, err := c.next.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, keyCollections, collections)
	return collections, nil
}

// GetCollectionBySlug returns the cached collection or fetches and stores it.
// Misses are not cached so a newly published collection shows up immediately.
func (c *RedisCollectionCache) GetCollectionBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	key := keyCollectionPrefix + slug

	var cached model.Collection
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	collection, err := c.next.GetCollectionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, collection)
	return collection, nil
}

// Invalidate drops the listing and, when slug is set, that collection's entry
func (c *RedisCollectionCache) Invalidate(ctx context.Context, slug string) error {
	keys := []string{keyCollections}
	if slug != "" {
		keys = append(keys, keyCollectionPrefix+slug)
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCollectionCache) get(ctx context.Context, key string, out interface{}) bool {
	if c.ttl <= 0 {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).Warnf("cache read failed for %s", key)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.WithError(err).Warnf("discarding undecodable cache entry %s", key)
		return false
	}
	return true
}

func (c *RedisCollectionCache) set(ctx context.Context, key string, value interface{}) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warnf("cache write failed for %s", key)
	}
}
