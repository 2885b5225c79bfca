// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss is returned by ICache.Get for an absent key.
var ErrCacheMiss = redis.Nil

type QueryFunc[T any] func(ctx context.Context, key string) (T, error)

type KeyFunc func(key string) string

// CachedQuery is a read-through cache in front of QueryFunc. Concurrent
// misses on one key share a single query. A nil ICache disables caching.
type CachedQuery[T any] struct {
	cache  ICache
	key    KeyFunc
	query  QueryFunc[T]
	ttl    time.Duration
	name   string
	flight singleflight.Group
}

type CachedQueryOption[T any] func(*CachedQuery[T])

func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		if ttl > 0 {
			cq.ttl = ttl
		}
	}
}

// WithName tags log lines emitted by the query.
func WithName[T any](name string) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.name = name
	}
}

func NewCachedQuery[T any](cache ICache, key KeyFunc, query QueryFunc[T], opts ...CachedQueryOption[T]) *CachedQuery[T] {
	cq := &CachedQuery[T]{
		cache: cache,
		key:   key,
		query: query,
		ttl:   5 * time.Minute,
		name:  "cached_query",
	}
	for _, opt := range opts {
		opt(cq)
	}
	return cq
}

func (cq *CachedQuery[T]) Get(ctx context.Context, key string) (T, error) {
	cacheKey := cq.key(key)
	if v, ok := cq.lookup(ctx, cacheKey); ok {
		return v, nil
	}

	v, err, _ := cq.flight.Do(cacheKey, func() (any, error) {
		res, err := cq.query(ctx, key)
		if err != nil {
			return nil, err
		}
		cq.store(ctx, cacheKey, res)
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s query %s: %w", cq.name, key, err)
	}
	return v.(T), nil
}

func (cq *CachedQuery[T]) lookup(ctx context.Context, cacheKey string) (T, bool) {
	var out T
	if cq.cache == nil {
		return out, false
	}
	raw, err := cq.cache.Get(ctx, cacheKey).Result()
	switch {
	case errors.Is(err, ErrCacheMiss):
		return out, false
	case err != nil:
		log.Warnw("cache get failed", "query", cq.name, "key", cacheKey, "error", err)
		return out, false
	}
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		log.Warnw("cached value is unreadable", "query", cq.name, "key", cacheKey, "error", err)
		return out, false
	}
	log.Debugw("cache hit", "query", cq.name, "key", cacheKey)
	return out, true
}

func (cq *CachedQuery[T]) store(ctx context.Context, cacheKey string, v T) {
	if cq.cache == nil {
		return
	}
	raw, err := sonic.MarshalString(v)
	if err != nil {
		log.Warnw("failed to encode value for cache", "query", cq.name, "key", cacheKey, "error", err)
		return
	}
	if err := cq.cache.Set(ctx, cacheKey, raw, cq.ttl).Err(); err != nil {
		log.Warnw("cache set failed", "query", cq.name, "key", cacheKey, "error", err)
	}
}

// Invalidate drops the cached entry so the next Get queries again.
func (cq *CachedQuery[T]) Invalidate(ctx context.Context, key string) error {
	if cq.cache == nil {
		return nil
	}
	cacheKey := cq.key(key)
	if err := cq.cache.Del(ctx, cacheKey).Err(); err != nil {
		log.Warnw("cache invalidate failed", "query", cq.name, "key", cacheKey, "error", err)
		return err
	}
	return nil
}
