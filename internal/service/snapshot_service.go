package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

const (
	cacheKeyGroups   = "schedule:groups"
	cacheKeyTeachers = "schedule:teachers"
	cacheKeyNotify   = "schedule:last_notify"
)

// SnapshotStore is the persistence surface the snapshot service needs.
type SnapshotStore interface {
	SavePage(ctx context.Context, page *models.Page) error
	LoadPage(ctx context.Context, kind models.Kind) (*models.Page, error)
	SaveNotify(ctx context.Context, notify *compare.Notify) error
	LoadNotify(ctx context.Context) (*compare.Notify, error)
}

// SnapshotService holds the current parsed pages in memory and mirrors
// them to Postgres and Redis. Reads are lock-guarded pointer grabs; the
// update cycle swaps whole pages, never mutates a published one.
type SnapshotService struct {
	mu         sync.RWMutex
	groups     *models.Page
	teachers   *models.Page
	lastNotify *compare.Notify

	store   SnapshotStore
	cache   *redis.Client
	metrics *Metrics
	log     *zap.Logger
}

// NewSnapshotService wires a snapshot service. The Redis client may be nil,
// degrading to Postgres-only persistence.
func NewSnapshotService(store SnapshotStore, cache *redis.Client, metrics *Metrics, log *zap.Logger) *SnapshotService {
	return &SnapshotService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		log:     log,
	}
}

// Restore loads persisted state after a restart so the first update cycle
// diffs against the previous run instead of an empty schedule.
func (s *SnapshotService) Restore(ctx context.Context) error {
	groups, err := s.store.LoadPage(ctx, models.KindGroups)
	if err != nil {
		return err
	}
	teachers, err := s.store.LoadPage(ctx, models.KindTeachers)
	if err != nil {
		return err
	}
	notify, err := s.store.LoadNotify(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.groups = groups
	s.teachers = teachers
	s.lastNotify = notify
	s.mu.Unlock()

	s.observePages(groups, teachers)
	s.log.Info("snapshot state restored",
		zap.Bool("groups", groups != nil),
		zap.Bool("teachers", teachers != nil),
		zap.Bool("last_notify", notify != nil),
	)
	return nil
}

// Groups returns the current group page, nil before the first cycle.
func (s *SnapshotService) Groups() *models.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups
}

// Teachers returns the current teacher page, nil before the first cycle.
func (s *SnapshotService) Teachers() *models.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teachers
}

// LastNotify returns the notification of the last cycle that changed
// anything, nil when none happened yet.
func (s *SnapshotService) LastNotify() *compare.Notify {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastNotify
}

// SetPages swaps both pages and persists them. Persistence failures are
// returned but the in-memory swap stays, keeping reads fresh.
func (s *SnapshotService) SetPages(ctx context.Context, groups, teachers *models.Page) error {
	s.mu.Lock()
	s.groups = groups
	s.teachers = teachers
	s.mu.Unlock()

	s.observePages(groups, teachers)

	var firstErr error
	for _, page := range []*models.Page{groups, teachers} {
		if page == nil {
			continue
		}
		if err := s.store.SavePage(ctx, page); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.cachePage(ctx, cacheKeyGroups, groups)
	s.cachePage(ctx, cacheKeyTeachers, teachers)

	return firstErr
}

// SetNotify records the latest change notification.
func (s *SnapshotService) SetNotify(ctx context.Context, notify *compare.Notify) error {
	s.mu.Lock()
	s.lastNotify = notify
	s.mu.Unlock()

	s.cacheValue(ctx, cacheKeyNotify, notify)
	return s.store.SaveNotify(ctx, notify)
}

func (s *SnapshotService) observePages(groups, teachers *models.Page) {
	if s.metrics == nil {
		return
	}
	if groups != nil {
		s.metrics.PageFormations.WithLabelValues(string(models.KindGroups)).Set(float64(len(groups.Formations)))
	}
	if teachers != nil {
		s.metrics.PageFormations.WithLabelValues(string(models.KindTeachers)).Set(float64(len(teachers.Formations)))
	}
}

func (s *SnapshotService) cachePage(ctx context.Context, key string, page *models.Page) {
	if page == nil {
		return
	}
	s.cacheValue(ctx, key, page)
}

// cacheValue mirrors a value into Redis for external readers. Cache
// failures only get logged, Postgres remains the source of truth.
func (s *SnapshotService) cacheValue(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, 0).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
