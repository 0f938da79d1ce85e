package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

const snapshotCacheKey = "catalog:snapshot"

type catalogSource interface {
	Load(ctx context.Context) (*models.CatalogSnapshot, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogService owns the catalog/payment-table snapshot lifecycle: redis
// TTL cache in front of the export loader, plus the last good snapshot
// held in-process so a cache or loader outage degrades to stale data
// instead of failing recommendations. The engine itself stays cache-free;
// it only ever receives an already-resolved snapshot.
type CatalogService struct {
	source  catalogSource
	cache   snapshotCache
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger

	mu       sync.RWMutex
	lastGood *models.CatalogSnapshot
}

// NewCatalogService constructs the snapshot provider. cache may be nil
// (every call loads from source).
func NewCatalogService(source catalogSource, cache snapshotCache, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, cache: cache, ttl: ttl, metrics: metrics, logger: logger}
}

// Snapshot returns the current catalog snapshot. Callers must treat the
// result as immutable for the duration of one recommendation.
func (s *CatalogService) Snapshot(ctx context.Context) (*models.CatalogSnapshot, error) {
	if s.cache != nil {
		var cached models.CatalogSnapshot
		err := s.cache.Get(ctx, snapshotCacheKey, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCatalogCache(true)
			}
			s.remember(&cached)
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordCatalogCache(false)
	}

	snapshot, err := s.source.Load(ctx)
	if err != nil {
		if stale := s.recall(); stale != nil {
			s.logger.Warn("catalog load failed, serving last good snapshot",
				zap.Error(err), zap.Time("fetched_at", stale.FetchedAt))
			return stale, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, appErrors.ErrCatalogUnavailable.Message)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey, snapshot, s.ttl); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	s.remember(snapshot)
	return snapshot, nil
}

// Refresh drops the cached snapshot and loads a fresh one; exposed to ops.
func (s *CatalogService) Refresh(ctx context.Context) (*models.CatalogSnapshot, error) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, snapshotCacheKey); err != nil {
			s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
		}
	}
	snapshot, err := s.source.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, appErrors.ErrCatalogUnavailable.Message)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey, snapshot, s.ttl); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	s.remember(snapshot)
	return snapshot, nil
}

func (s *CatalogService) remember(snapshot *models.CatalogSnapshot) {
	s.mu.Lock()
	s.lastGood = snapshot
	s.mu.Unlock()
}

func (s *CatalogService) recall() *models.CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastGood
}
