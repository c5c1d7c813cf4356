package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/models"
)

const cachePrefix = "metalab:"

type cachedMatchStore struct {
	MatchStore
	redis  RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewCachedMatchStore caches MatchStats and TopHeroes in Redis for ttl.
// Cache failures are logged and the underlying store is queried instead.
func NewCachedMatchStore(next MatchStore, rdb RedisClient, ttl time.Duration, logger *zap.Logger) MatchStore {
	return &cachedMatchStore{MatchStore: next, redis: rdb, ttl: ttl, logger: logger.Sugar()}
}

func (s *cachedMatchStore) MatchStats(ctx context.Context) (*models.MatchStats, error) {
	var stats models.MatchStats
	key := cachePrefix + "stats"
	if s.get(ctx, key, &stats) {
		return &stats, nil
	}

	fresh, err := s.MatchStore.MatchStats(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, fresh)
	return fresh, nil
}

func (s *cachedMatchStore) TopHeroes(ctx context.Context, limit int) ([]models.HeroAggregate, error) {
	var heroes []models.HeroAggregate
	key := fmt.Sprintf("%sheroes:%d", cachePrefix, limit)
	if s.get(ctx, key, &heroes) {
		return heroes, nil
	}

	fresh, err := s.MatchStore.TopHeroes(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, fresh)
	return fresh, nil
}

func (s *cachedMatchStore) get(ctx context.Context, key string, dest any) bool {
	raw, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		cacheMisses.Inc()
		return false
	}
	if err != nil {
		s.logger.Warnw("Cache read failed", "key", key, "error", err)
		cacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warnw("Cache entry corrupt", "key", key, "error", err)
		cacheMisses.Inc()
		return false
	}
	cacheHits.Inc()
	return true
}

func (s *cachedMatchStore) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warnw("Cache write failed", "key", key, "error", err)
	}
}
