package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"investmate/internal/models"

	"go.uber.org/zap"
)

// criteriaCacheStore is what the cache needs from its backing table.
type criteriaCacheStore interface {
	Get(ctx context.Context, question string) (*models.CachedCriteria, error)
	Put(ctx context.Context, question, criteriaJSON string) error
	Count(ctx context.Context) (int, error)
	EvictOverflow(ctx context.Context, max int) (int64, error)
	Delete(ctx context.Context, question string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Clear(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// CacheService memoizes extracted criteria per exact question string.
// The backing store is never load-bearing: every failure degrades to a
// miss on read and a silent no-op on write.
type CacheService struct {
	store      criteriaCacheStore
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger
}

func NewCacheService(store criteriaCacheStore, ttl time.Duration, maxEntries int, logger *zap.Logger) *CacheService {
	return &CacheService{
		store:      store,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Get returns the cached criteria for a question, or ok=false on miss.
// Entries older than the TTL count as misses and are deleted on the spot.
func (s *CacheService) Get(ctx context.Context, question string) (*models.SearchCriteria, bool) {
	question = strings.TrimSpace(question)

	cached, err := s.store.Get(ctx, question)
	if err != nil {
		return nil, false
	}

	if time.Since(cached.CreatedAt) > s.ttl {
		if err := s.store.Delete(ctx, question); err != nil {
			s.logger.Warn("failed to delete stale cache entry", zap.Error(err))
		}
		return nil, false
	}

	var criteria models.SearchCriteria
	if err := json.Unmarshal([]byte(cached.CriteriaJSON), &criteria); err != nil {
		s.logger.Warn("corrupt cached criteria, treating as miss",
			zap.String("question", question), zap.Error(err))
		return nil, false
	}

	return &criteria, true
}

// Put stores the criteria and enforces the capacity bound by evicting the
// oldest entries, synchronously on the write path.
func (s *CacheService) Put(ctx context.Context, question string, criteria *models.SearchCriteria) {
	question = strings.TrimSpace(question)

	data, err := json.Marshal(criteria)
	if err != nil {
		s.logger.Warn("failed to marshal criteria for cache", zap.Error(err))
		return
	}

	if err := s.store.Put(ctx, question, string(data)); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
		return
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Warn("cache count failed", zap.Error(err))
		return
	}
	if count > s.maxEntries {
		evicted, err := s.store.EvictOverflow(ctx, s.maxEntries)
		if err != nil {
			s.logger.Warn("cache eviction failed", zap.Error(err))
			return
		}
		s.logger.Info("evicted old cache entries", zap.Int64("count", evicted))
	}
}

type CacheStats struct {
	Status      string `json:"status"`
	CachedItems int    `json:"cached_items"`
	MaxItems    int    `json:"max_items"`
}

func (s *CacheService) Stats(ctx context.Context) *CacheStats {
	if err := s.store.Ping(ctx); err != nil {
		return &CacheStats{Status: "unavailable", MaxItems: s.maxEntries}
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return &CacheStats{Status: "error", MaxItems: s.maxEntries}
	}

	return &CacheStats{
		Status:      "connected",
		CachedItems: count,
		MaxItems:    s.maxEntries,
	}
}

// Clear drops every cached entry. Development use only.
func (s *CacheService) Clear(ctx context.Context) (int64, error) {
	return s.store.Clear(ctx)
}

// PurgeStale removes entries past their TTL, used by the cleanup pass.
func (s *CacheService) PurgeStale(ctx context.Context) {
	deleted, err := s.store.DeleteOlderThan(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		s.logger.Warn("stale criteria purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("purged stale cached criteria", zap.Int64("count", deleted))
	}
}
