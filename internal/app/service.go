// Package service composes the league: it loads the tables, runs every rider
// through the evaluation pipeline and serves the resulting board, leaderboard
// and archive to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/peloton/internal/adapters/mq/queue"
	"github.com/okian/peloton/internal/adapters/mq/worker"
	"github.com/okian/peloton/internal/adapters/repository"
	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/dedupe"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/scoring"
	"github.com/okian/peloton/internal/domain/types"
	"github.com/okian/peloton/pkg/logger"
	"github.com/okian/peloton/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 100_000
	defaultMaxLimit   = 100
)

// Archive persists league news and manager signups.
type Archive interface {
	Articles(ctx context.Context) ([]model.Article, error)
	Publish(ctx context.Context, art model.Article) (model.Article, error)
	AddSignup(ctx context.Context, s model.Signup) (model.Signup, error)
	Signups(ctx context.Context) ([]model.Signup, error)
}

// snapshot is one published reload: the board and the leaderboard built from
// the same evaluations. Readers take both from a single load.
type snapshot struct {
	board *league.Board
	store *repository.TreapStore
}

// Service implements the API dependencies for the league.
type Service struct {
	mu sync.RWMutex

	// Core components
	cache   *repository.Cache
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	scorer  scoring.Scorer
	pool    *worker.Pool
	archive Archive

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex
	reloads  atomic.Int64

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	season      int
	maxLimit    int
	overrides   map[string]archetype.Archetype

	// State
	started bool
	runCtx  context.Context
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of evaluation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the evaluation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the id tracker used while building the dataset.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where the league tables are read from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.cache = repository.NewCache(src)
		}
	}
}

// WithArchive sets the news and signup store.
func WithArchive(a Archive) Option {
	return func(s *Service) {
		if a != nil {
			s.archive = a
		}
	}
}

// WithSeason sets the season year stamped on the dataset and on signups.
func WithSeason(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.season = year
		}
	}
}

// WithMaxLeaderboardLimit caps TopN.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithArchetypeOverrides pins the archetype of the given rider ids.
func WithArchetypeOverrides(overrides map[string]archetype.Archetype) Option {
	return func(s *Service) {
		for id, a := range overrides {
			s.overrides[id] = a
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		season:      league.DefaultSeason,
		maxLimit:    defaultMaxLimit,
		overrides:   make(map[string]archetype.Archetype),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the evaluation pipeline and performs the first load. A failed
// first load is returned but leaves the service started, so a later Reload
// can recover.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting league service...")

	runCtx, cancel := context.WithCancel(ctx)
	s.runCtx = runCtx
	s.cancel = cancel

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)

	scorerOpts := make([]scoring.Option, 0, len(s.overrides))
	for id, a := range s.overrides {
		scorerOpts = append(scorerOpts, scoring.WithArchetypeOverride(id, a))
	}
	s.scorer = scoring.NewInMemoryScorer(scorerOpts...)

	// Every job names the store of its reload, so the pool has no default.
	s.pool = worker.NewPool(s.workerCount, s.queue, s.scorer, nil)
	s.pool.Start(runCtx)

	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "league service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("season", s.season),
		logger.Int("overrides", len(s.overrides)),
	)

	if s.cache == nil {
		s.logger.Warn(ctx, "no table source configured, league views stay empty")
		return nil
	}
	if _, err := s.Reload(ctx); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping league service...")

	if s.pool != nil {
		s.pool.Stop()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if snap := s.current.Load(); snap != nil {
		_ = snap.store.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(ctx, "league service stopped")
}

// Reload re-reads the tables, evaluates every rider through the worker pool
// into a fresh ranking store and publishes it with the new board in one swap.
// Readers keep seeing the previous snapshot until then, and keep it for good
// when the reload fails.
func (s *Service) Reload(ctx context.Context) (league.Report, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return league.Report{}, ErrNotStarted
	}
	if s.cache == nil {
		return league.Report{}, ErrNoSource
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	next, rep, err := s.rebuild(ctx)
	if err != nil {
		metrics.RecordDatasetReload("error")
		metrics.RecordErrorByComponent("service", "reload")
		s.logger.Error(ctx, "reload failed, keeping previous board", logger.Error(err))
		return rep, err
	}

	if prev := s.current.Swap(next); prev != nil {
		// Readers holding prev can still query it; Close only stops its gauges.
		_ = prev.store.Close()
	}
	s.reloads.Add(1)
	s.publishMetrics(next.board, rep)

	sum := next.board.Summary()
	s.logger.Info(ctx, "league reloaded",
		logger.Int("teams", sum.Teams),
		logger.Int("riders", sum.Riders),
		logger.Int("unrated", sum.Unrated),
		logger.Int("dropped", rep.Dropped()),
		logger.Float64("seconds", time.Since(start).Seconds()),
	)
	return rep, nil
}

func (s *Service) rebuild(ctx context.Context) (*snapshot, league.Report, error) {
	tables, err := s.cache.Reload(ctx)
	if err != nil {
		return nil, league.Report{}, fmt.Errorf("reload tables: %w", err)
	}

	dataset, rep := league.Build(ctx, tables,
		league.WithSeason(s.season),
		league.WithDeduper(s.deduper),
	)
	if rep.Dropped() > 0 {
		s.logger.Warn(ctx, "dropped rows while building the dataset",
			logger.Int("duplicateRiders", rep.DuplicateRiders),
			logger.Int("duplicateTeams", rep.DuplicateTeams),
			logger.Int("missingIDs", rep.MissingIDs),
		)
	}

	store := repository.NewTreapStore(s.runCtx, repository.WithExpectedRiders(len(dataset.Riders)))
	if err := s.evaluate(ctx, store, dataset.Riders); err != nil {
		_ = store.Close()
		return nil, rep, err
	}
	return &snapshot{board: league.NewBoard(dataset, store.All(ctx)), store: store}, rep, nil
}

// evaluate hands every rider to the pool and waits until all of them are in
// store. Riders the queue refuses are evaluated inline.
func (s *Service) evaluate(ctx context.Context, store *repository.TreapStore, riders []model.Rider) error {
	var (
		wg     sync.WaitGroup
		inline int
	)
	for _, r := range riders {
		wg.Add(1)
		if s.queue.Enqueue(ctx, queue.Job{Rider: r, Store: store, Done: wg.Done}) {
			continue
		}
		wg.Done()
		inline++

		ev, err := s.scorer.Score(ctx, r)
		if err != nil {
			return fmt.Errorf("evaluate rider %s: %w", r.ID, err)
		}
		if err := store.Put(ctx, ev); err != nil {
			return fmt.Errorf("store rider %s: %w", r.ID, err)
		}
		metrics.RecordRiderEvaluated(ev.Archetype.String())
	}
	if inline > 0 {
		s.logger.Debug(ctx, "queue refused riders, evaluated inline", logger.Int("riders", inline))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for evaluations: %w", ctx.Err())
	}
}

func (s *Service) publishMetrics(b *league.Board, rep league.Report) {
	sum := b.Summary()
	metrics.UpdateRidersTotal(sum.Riders)
	metrics.UpdateRidersUnrated(sum.Unrated)
	for a, n := range b.ArchetypeCounts() {
		metrics.UpdateRidersByArchetype(a.String(), n)
	}
	metrics.UpdateDatasetLastLoad(b.Dataset().LoadedAt)
	metrics.RecordDuplicatesDropped("riders", rep.DuplicateRiders)
	metrics.RecordDuplicatesDropped("teams", rep.DuplicateTeams)
	metrics.RecordDatasetReload("success")
}

// Board returns the current board.
func (s *Service) Board() (*league.Board, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.board, nil
}

func (s *Service) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Assess evaluates a single attribute map without touching the league.
func (s *Service) Assess(attrs map[string]string) scoring.Assessment {
	return scoring.Assess(attrs)
}

// TopN returns the n best rated riders of the leaderboard.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if n < 1 || n > s.maxLimit {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidLimit, n, s.maxLimit)
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	entries, err := snap.store.TopN(ctx, n)
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = enrich(snap.board, e)
	}
	return out, nil
}

// Rank returns the leaderboard entry of a rider.
func (s *Service) Rank(ctx context.Context, riderID string) (types.Entry, error) {
	snap, err := s.snapshot()
	if err != nil {
		return types.Entry{}, err
	}
	e, err := snap.store.Rank(ctx, riderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return types.Entry{}, fmt.Errorf("%w: %s", league.ErrRiderNotFound, riderID)
		}
		return types.Entry{}, err
	}
	return enrich(snap.board, e), nil
}

// MaxLeaderboardLimit is the largest accepted TopN.
func (s *Service) MaxLeaderboardLimit() int { return s.maxLimit }

func enrich(b *league.Board, e repository.Entry) types.Entry {
	out := types.Entry{
		Rank:      e.Rank,
		RiderID:   e.RiderID,
		Name:      e.RiderID,
		Overall:   e.Overall,
		Archetype: e.Archetype.String(),
	}
	if r, ok := b.Dataset().Rider(e.RiderID); ok {
		out.Name = r.FullName()
		out.TeamID = r.TeamID
	}
	if ev, ok := b.Evaluation(e.RiderID); ok && ev.Pinned() {
		out.Classified = ev.Classified.String()
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"season":      s.season,
		"reloads":     s.reloads.Load(),
		"loaded":      s.current.Load() != nil,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["totalRiders"], stats["rankedRiders"] = 0, 0
		if snap := s.current.Load(); snap != nil {
			stats["totalRiders"] = snap.store.Count(ctx)
			stats["rankedRiders"] = snap.store.Ranked(ctx)
		}
		stats["processed"] = s.pool.Processed()
		metrics.UpdateQueueSize(queueLen)
	}
	if s.cache != nil {
		if at := s.cache.LoadedAt(); !at.IsZero() {
			stats["loadedAt"] = at.UTC().Format(time.RFC3339)
		}
	}
	if st, ok := s.archive.(interface{ Stats() map[string]interface{} }); ok {
		stats["archive"] = st.Stats()
	}

	return stats
}
