package redis

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION CACHE
// Caches assembled recommendation results keyed by requester and query
// parameters. Implements query.ResultCache and the cache invalidation
// hook used by the connection commands.
// ══════════════════════════════════════════════════════════════════════════════

// RecommendationCache is a typed wrapper over the generic Cache for
// recommendation results.
type RecommendationCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewRecommendationCache creates a RecommendationCache with the default TTL.
func NewRecommendationCache(cache *Cache) *RecommendationCache {
	return &RecommendationCache{cache: cache, ttl: TTLRecommendationCache}
}

// NewRecommendationCacheWithTTL creates a RecommendationCache with a custom TTL.
func NewRecommendationCacheWithTTL(cache *Cache, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = TTLRecommendationCache
	}
	return &RecommendationCache{cache: cache, ttl: ttl}
}

// Get reads a cached result. Returns false on a miss.
func (r *RecommendationCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	err := r.cache.Get(ctx, RecommendationKey(key), dest)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Set stores a result under the given key.
func (r *RecommendationCache) Set(ctx context.Context, key string, value any) error {
	return r.cache.Set(ctx, RecommendationKey(key), value, r.ttl)
}

// Invalidate drops all cached results belonging to a user.
// Keys are prefixed with the requester ID, so a pattern delete catches
// every limit/min-score combination at once.
func (r *RecommendationCache) Invalidate(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrCacheKeyEmpty
	}
	return r.cache.DeleteByPattern(ctx, RecommendationKey(userID)+":*")
}
