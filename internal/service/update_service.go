package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kerdl/ktmuscrap-sub000/internal/archive"
	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	"github.com/kerdl/ktmuscrap-sub000/internal/grid"
	"github.com/kerdl/ktmuscrap-sub000/internal/merge"
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
	"github.com/kerdl/ktmuscrap-sub000/internal/parse"
	"github.com/kerdl/ktmuscrap-sub000/pkg/config"
	"github.com/kerdl/ktmuscrap-sub000/pkg/jobs"
)

// Fetcher downloads a source archive.
type Fetcher interface {
	Archive(ctx context.Context, url string) ([]byte, error)
}

// UpdateService runs the fetch-parse-compare-publish cycle. Cycles are
// serialized by a mutex: a manual trigger arriving while the periodic one
// runs waits for it instead of racing over the scratch directory.
type UpdateService struct {
	mu sync.Mutex

	sources config.SourcesConfig
	period  time.Duration

	fetcher   Fetcher
	mapper    *parse.Mapper
	snapshots *SnapshotService
	hub       *HubService
	metrics   *Metrics
	purge     *jobs.Queue
	log       *zap.Logger
}

// NewUpdateService wires the update pipeline.
func NewUpdateService(
	sources config.SourcesConfig,
	period time.Duration,
	fetcher Fetcher,
	mapper *parse.Mapper,
	snapshots *SnapshotService,
	hub *HubService,
	metrics *Metrics,
	purge *jobs.Queue,
	log *zap.Logger,
) *UpdateService {
	return &UpdateService{
		sources:   sources,
		period:    period,
		fetcher:   fetcher,
		mapper:    mapper,
		snapshots: snapshots,
		hub:       hub,
		metrics:   metrics,
		purge:     purge,
		log:       log,
	}
}

// Run executes one cycle immediately and then one per period until the
// context is done.
func (s *UpdateService) Run(ctx context.Context) {
	if _, err := s.Trigger(ctx, ""); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("initial update cycle failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Trigger(ctx, ""); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("update cycle failed", zap.Error(err))
			}
		}
	}
}

// Trigger runs one update cycle on behalf of the given invoker and
// returns its notification, whether or not it carries changes. A panic
// inside the cycle fails the cycle, not the process; the previous
// snapshot stays published.
func (s *UpdateService) Trigger(ctx context.Context, invoker compare.Invoker) (notify *compare.Notify, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("update cycle panicked: %v", r)
				s.log.Error("update cycle panicked", zap.Any("panic", r), zap.Stack("stack"))
			}
		}()
		notify, err = s.cycle(ctx, invoker)
	}()

	result := "success"
	if err != nil {
		result = "failure"
	}
	if s.metrics != nil {
		s.metrics.UpdateCycles.WithLabelValues(result).Inc()
		s.metrics.UpdateDuration.Observe(time.Since(start).Seconds())
	}

	return notify, err
}

func (s *UpdateService) cycle(ctx context.Context, invoker compare.Invoker) (*compare.Notify, error) {
	var groupsPage, teachersPage *models.Page

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.loadInto(gctx, models.KindGroups, s.sources.GroupsURL, &groupsPage))
	g.Go(s.loadInto(gctx, models.KindTeachers, s.sources.TeachersURL, &teachersPage))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A disabled or broken source keeps its previous page instead of
	// reading as a mass disappearance.
	if groupsPage == nil {
		groupsPage = s.snapshots.Groups()
	}
	if teachersPage == nil {
		teachersPage = s.snapshots.Teachers()
	}

	if groupsPage != nil && teachersPage != nil {
		if err := merge.Complement(groupsPage, teachersPage); err != nil {
			// The two sources publish new weeks at different moments;
			// a transient mismatch is not worth failing the cycle.
			s.log.Warn("complement skipped", zap.Error(err))
		}
	}

	groupsDiff := compare.Pages(s.snapshots.Groups(), groupsPage)
	teachersDiff := compare.Pages(s.snapshots.Teachers(), teachersPage)

	notify := &compare.Notify{
		Nonce:   uuid.NewString(),
		Invoker: invoker,
	}
	if groupsDiff.HasChanges() {
		notify.Groups = &groupsDiff
	}
	if teachersDiff.HasChanges() {
		notify.Teachers = &teachersDiff
	}

	if err := s.snapshots.SetPages(ctx, groupsPage, teachersPage); err != nil {
		s.log.Warn("snapshot persistence failed", zap.Error(err))
	}

	if notify.HasChanges() {
		if err := s.snapshots.SetNotify(ctx, notify); err != nil {
			s.log.Warn("notify persistence failed", zap.Error(err))
		}
		s.hub.Publish(notify)
		s.log.Info("schedule changed",
			zap.String("nonce", notify.Nonce),
			zap.Bool("groups", notify.Groups != nil),
			zap.Bool("teachers", notify.Teachers != nil),
		)
	}

	return notify, nil
}

// loadInto wraps loadKind so a failing source costs only its own
// contribution: the error is logged, the page stays nil and the cycle
// carries on with the other source. Context errors still abort the cycle.
func (s *UpdateService) loadInto(ctx context.Context, kind models.Kind, url string, dst **models.Page) func() error {
	return func() error {
		page, err := s.loadKind(ctx, kind, url)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.log.Warn("source contribution skipped this cycle",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			return nil
		}
		*dst = page
		return nil
	}
}

// loadKind fetches, unpacks and parses one source. An archive may hold
// several documents; the one whose header starts latest wins, since the
// export keeps previous weeks around.
func (s *UpdateService) loadKind(ctx context.Context, kind models.Kind, url string) (*models.Page, error) {
	if url == "" {
		return nil, nil
	}

	data, err := s.fetcher.Archive(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	dir := filepath.Join(s.sources.TempDir, string(kind))
	if err := archive.Unpack(data, dir); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	docs, err := archive.Documents(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: archive holds no documents", kind)
	}

	var latest *models.Page
	var latestDoc string
	for _, doc := range docs {
		page, err := s.parseDocument(doc, kind)
		if err != nil {
			s.log.Warn("document skipped",
				zap.String("kind", string(kind)),
				zap.String("document", filepath.Base(doc)),
				zap.Error(err),
			)
			continue
		}
		if latest == nil || page.StartDate.After(latest.StartDate) {
			latest = page
			latestDoc = doc
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%s: no document parsed", kind)
	}

	// Older duplicates and unparseable files are dead weight; the selected
	// document stays on disk until the next unpack wipes the directory.
	for _, doc := range docs {
		if doc != latestDoc {
			s.schedulePurge(doc)
		}
	}

	return latest, nil
}

func (s *UpdateService) parseDocument(path string, kind models.Kind) (*models.Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := grid.TokenizeDocument(string(raw))
	if err != nil {
		return nil, err
	}

	return s.mapper.Page(grid.Build(rows), kind, models.ScopeWeekly)
}

// schedulePurge hands a non-selected extracted file to the purge queue.
// With no queue wired the file stays until the next unpack wipes it.
func (s *UpdateService) schedulePurge(path string) {
	if s.purge == nil {
		return
	}
	err := s.purge.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "purge",
		Payload: path,
	})
	if err != nil {
		s.log.Warn("purge enqueue failed", zap.String("path", path), zap.Error(err))
	}
}

// NewPurgeQueue builds the scratch file cleaner.
func NewPurgeQueue(log *zap.Logger) *jobs.Queue {
	handler := func(ctx context.Context, job jobs.Job) error {
		path, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("purge job %s: unexpected payload %T", job.ID, job.Payload)
		}
		return os.RemoveAll(path)
	}

	return jobs.NewQueue("purge", handler, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
		Logger:     log,
	})
}
