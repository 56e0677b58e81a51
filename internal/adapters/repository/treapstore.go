package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/peloton/internal/domain/scoring"
	"github.com/okian/peloton/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: overall DESC, then riderID ASC (deterministic).
// "less" means ranks earlier, so in-order traversal produces the
// leaderboard from best to worst. Only rated riders live in the tree;
// unrated ones are kept in byID so Get and All still see them.

// treap node
type node struct {
	id      string
	overall int
	prio    uint64
	left    *node
	right   *node
	size    int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aOverall, aID) should appear before (bOverall, bID)
// in the leaderboard.
func less(aOverall int, aID string, bOverall int, bID string) bool {
	if aOverall != bOverall {
		return aOverall > bOverall
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, overall int) *node {
	if n == nil {
		return &node{id: id, overall: overall, prio: rand.Uint64(), size: 1}
	}
	if less(overall, id, n.overall, n.id) {
		n.left = insert(n.left, id, overall)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, overall)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, overall int) *node {
	if n == nil {
		return nil
	}
	if overall == n.overall && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, overall)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, overall)
		}
	} else if less(overall, id, n.overall, n.id) {
		n.left = deleteNode(n.left, id, overall)
	} else {
		n.right = deleteNode(n.right, id, overall)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, byID map[string]scoring.Evaluation, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		*out = append(*out, Entry{RiderID: n.id, Overall: n.overall, Archetype: byID[n.id].Archetype})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byID, out)
	}
}

// assignRanksWithTies assigns dense ranks: riders with the same overall
// share a rank and the next overall gets the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Overall != entries[i-1].Overall {
			rank++
		}
		entries[i].Rank = rank
	}
}

// TreapStore implements Store with a treap over rated riders.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[string]scoring.Evaluation
	levels map[int]int // riders per overall value, for dense ranks

	gaugeInterval time.Duration
	sizeHint      int

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options. The
// background metrics updater stops when ctx is done or Close is called.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		levels:        make(map[int]int),
		gaugeInterval: 5 * time.Second,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.byID = make(map[string]scoring.Evaluation, s.sizeHint)
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Put implements Store.Put with O(log n) expected time.
func (s *TreapStore) Put(ctx context.Context, ev scoring.Evaluation) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.RiderID == "" {
		metrics.RecordErrorByComponent("repository", "missing_id")
		return ErrNotFound
	}

	s.mu.Lock()
	if old, ok := s.byID[ev.RiderID]; ok && old.Overall.Rated {
		s.root = deleteNode(s.root, old.RiderID, old.Overall.Value)
		s.dropLevel(old.Overall.Value)
	}
	s.byID[ev.RiderID] = ev
	if ev.Overall.Rated {
		s.root = insert(s.root, ev.RiderID, ev.Overall.Value)
		s.levels[ev.Overall.Value]++
	}
	s.mu.Unlock()
	return nil
}

func (s *TreapStore) dropLevel(overall int) {
	if s.levels[overall] <= 1 {
		delete(s.levels, overall)
		return
	}
	s.levels[overall]--
}

// Get implements Store.Get.
func (s *TreapStore) Get(_ context.Context, riderID string) (scoring.Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.byID[riderID]
	return ev, ok
}

// Rank returns the dense rank of a rider. The rank is one more than the
// number of distinct overall values above the rider's.
func (s *TreapStore) Rank(_ context.Context, riderID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.byID[riderID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	if !ev.Overall.Rated {
		return Entry{}, ErrUnranked
	}
	rank := 1
	for overall := range s.levels {
		if overall > ev.Overall.Value {
			rank++
		}
	}
	return Entry{Rank: rank, RiderID: riderID, Overall: ev.Overall.Value, Archetype: ev.Archetype}, nil
}

// TopN returns the top N rated riders ordered by overall desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, nsize(s.root)))
	collectTopN(s.root, n, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of stored riders.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Ranked returns the number of riders on the leaderboard.
func (s *TreapStore) Ranked(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nsize(s.root)
}

// All implements Store.All.
func (s *TreapStore) All(_ context.Context) map[string]scoring.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]scoring.Evaluation, len(s.byID))
	for id, ev := range s.byID {
		out[id] = ev
	}
	return out
}

// Reset implements Store.Reset.
func (s *TreapStore) Reset(_ context.Context) {
	s.mu.Lock()
	s.root = nil
	s.byID = make(map[string]scoring.Evaluation, s.sizeHint)
	s.levels = make(map[int]int)
	s.mu.Unlock()
	metrics.UpdateRepositoryRecordsTotal(0)
	metrics.UpdateRepositoryRankedTotal(0)
}

// startMetricsUpdater starts a background goroutine that updates repository metrics
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.gaugeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	records, ranked := len(s.byID), nsize(s.root)
	s.mu.RUnlock()
	metrics.UpdateRepositoryRecordsTotal(records)
	metrics.UpdateRepositoryRankedTotal(ranked)
}
