// Package cache holds the resolved-board result cache. Entries are JSON
// blobs keyed by (stop code, route filter) and expire by TTL. The backing
// store is in-memory by default, Redis when one is connected.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocachestore "github.com/eko/gocache/store/go_cache/v4"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/nextride/nextride/pkg/redis_client"
	"github.com/nextride/nextride/pkg/transit"
	gocachelib "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

type ResultCache struct {
	backend *cache.Cache[string]
	ttl     time.Duration
}

func Setup(ttl time.Duration) *ResultCache {
	var backend *cache.Cache[string]

	if redis_client.Client != nil {
		redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(ttl))
		backend = cache.New[string](redisStore)

		log.Debug().Msg("Result cache backed by Redis")
	} else {
		memoryStore := gocachestore.NewGoCache(
			gocachelib.New(ttl, 2*ttl),
			store.WithExpiration(ttl),
		)
		backend = cache.New[string](memoryStore)
	}

	return &ResultCache{backend: backend, ttl: ttl}
}

func (r *ResultCache) GetBoard(ctx context.Context, key string) (*transit.StopBoard, bool) {
	value, err := r.backend.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var board transit.StopBoard
	if err := json.Unmarshal([]byte(value), &board); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return nil, false
	}

	return &board, true
}

func (r *ResultCache) SetBoard(ctx context.Context, key string, board *transit.StopBoard) {
	value, err := json.Marshal(board)
	if err != nil {
		return
	}

	if err := r.backend.Set(ctx, key, string(value), store.WithExpiration(r.ttl)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to store board in cache")
	}
}
