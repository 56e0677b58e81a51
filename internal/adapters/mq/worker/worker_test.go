package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/peloton/internal/adapters/mq/queue"
	worker "github.com/okian/peloton/internal/adapters/mq/worker"
	"github.com/okian/peloton/internal/domain/archetype"
	model "github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/scoring"
	logging "github.com/okian/peloton/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 200)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

// add queues a rider and returns a channel closed when the job is finished.
func (mq *mockQueue) add(r model.Rider) <-chan struct{} {
	done := make(chan struct{})
	mq.jobs <- queue.Job{Rider: r, Done: func() { close(done) }}
	return done
}

type mockScorer struct {
	inner  *scoring.InMemoryScorer
	errors map[string]error
	mu     sync.RWMutex
}

func newMockScorer() *mockScorer {
	return &mockScorer{inner: scoring.NewInMemoryScorer(), errors: make(map[string]error)}
}

func (ms *mockScorer) Score(ctx context.Context, r model.Rider) (scoring.Evaluation, error) {
	ms.mu.RLock()
	err, exists := ms.errors[r.ID]
	ms.mu.RUnlock()
	if exists {
		return scoring.Evaluation{}, err
	}
	return ms.inner.Score(ctx, r)
}

func (ms *mockScorer) setError(riderID string, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.errors[riderID] = err
}

type mockUpdater struct {
	evals  map[string]scoring.Evaluation
	errors map[string]error
	mu     sync.RWMutex
}

func newMockUpdater() *mockUpdater {
	return &mockUpdater{
		evals:  make(map[string]scoring.Evaluation),
		errors: make(map[string]error),
	}
}

func (mu *mockUpdater) Put(ctx context.Context, ev scoring.Evaluation) error {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	if err, exists := mu.errors[ev.RiderID]; exists {
		return err
	}
	mu.evals[ev.RiderID] = ev
	return nil
}

func (mu *mockUpdater) setError(riderID string, err error) {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	mu.errors[riderID] = err
}

func (mu *mockUpdater) get(riderID string) (scoring.Evaluation, bool) {
	mu.mu.RLock()
	defer mu.mu.RUnlock()
	ev, exists := mu.evals[riderID]
	return ev, exists
}

func climber(id string) model.Rider {
	return model.Rider{ID: id, Stats: model.StatsOf(map[model.Skill]float64{
		model.Mountain:       82,
		model.MediumMountain: 80,
		model.Hill:           70,
		model.Flat:           60,
		model.TimeTrial:      60,
		model.Sprint:         55,
	})}
}

func waitFor(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-time.After(time.Second):
		return false
	}
}

func TestInMemoryWorker_NoStore(t *testing.T) {
	convey.Convey("Given a worker without an updater", t, func() {
		_ = logging.Init()
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, newMockScorer(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job carries no store", func() {
			finished := waitFor(q.add(climber("r5")))

			convey.Convey("Then the job is still finished", func() {
				convey.So(finished, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a job carries a store", func() {
			own := newMockUpdater()
			done := make(chan struct{})
			q.jobs <- queue.Job{Rider: climber("r6"), Store: own, Done: func() { close(done) }}

			convey.Convey("Then the evaluation is stored there", func() {
				convey.So(waitFor(done), convey.ShouldBeTrue)
				_, stored := own.get("r6")
				convey.So(stored, convey.ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		scorer := newMockScorer()
		updater := newMockUpdater()

		convey.Convey("When creating a worker with options", func() {
			w := worker.NewInMemoryWorker(q, scorer, updater, worker.WithName("test-worker"), worker.WithLogger(logging.Get()))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(q, scorer, updater)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And when processing a rider", func() {
				finished := waitFor(q.add(climber("r1")))

				convey.Convey("Then it should store the evaluation", func() {
					convey.So(finished, convey.ShouldBeTrue)
					ev, stored := updater.get("r1")
					convey.So(stored, convey.ShouldBeTrue)
					convey.So(ev.Overall.Rated, convey.ShouldBeTrue)
					convey.So(ev.Overall.Value, convey.ShouldEqual, 68)
					convey.So(ev.Archetype, convey.ShouldEqual, archetype.Climber)
				})
			})

			convey.Convey("And when scoring fails", func() {
				scorer.setError("r2", errors.New("scoring error"))
				finished := waitFor(q.add(climber("r2")))

				convey.Convey("Then the job still finishes and nothing is stored", func() {
					convey.So(finished, convey.ShouldBeTrue)
					_, stored := updater.get("r2")
					convey.So(stored, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when updating fails", func() {
				updater.setError("r3", errors.New("update error"))
				finished := waitFor(q.add(climber("r3")))

				convey.Convey("Then the job still finishes and nothing is stored", func() {
					convey.So(finished, convey.ShouldBeTrue)
					_, stored := updater.get("r3")
					convey.So(stored, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when the job names its own store", func() {
				own := newMockUpdater()
				done := make(chan struct{})
				q.jobs <- queue.Job{Rider: climber("r4"), Store: own, Done: func() { close(done) }}
				finished := waitFor(done)

				convey.Convey("Then the evaluation goes there and not to the worker's updater", func() {
					convey.So(finished, convey.ShouldBeTrue)
					_, inOwn := own.get("r4")
					convey.So(inOwn, convey.ShouldBeTrue)
					_, inDefault := updater.get("r4")
					convey.So(inDefault, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When the context is cancelled", func() {
			w := worker.NewInMemoryWorker(q, scorer, updater)
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then Shutdown returns without waiting", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		scorer := newMockScorer()
		updater := newMockUpdater()

		convey.Convey("When creating a pool with the default count", func() {
			pool := worker.NewPool(0, q, scorer, updater)

			convey.Convey("Then it should have at least one worker", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When starting a pool", func() {
			pool := worker.NewPool(3, q, scorer, updater)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			convey.Convey("And when processing many riders", func() {
				const riders = 100
				var wg sync.WaitGroup
				for i := 0; i < 5; i++ {
					wg.Add(1)
					go func(p int) {
						defer wg.Done()
						for j := 0; j < riders/5; j++ {
							waitFor(q.add(climber(fmt.Sprintf("r-%d-%d", p, j))))
						}
					}(i)
				}
				wg.Wait()

				convey.Convey("Then every rider should be stored and counted", func() {
					count := 0
					for i := 0; i < 5; i++ {
						for j := 0; j < riders/5; j++ {
							if _, ok := updater.get(fmt.Sprintf("r-%d-%d", i, j)); ok {
								count++
							}
						}
					}
					convey.So(count, convey.ShouldEqual, riders)
					convey.So(pool.Processed(), convey.ShouldEqual, riders)
				})
			})

			convey.Convey("And when shutting down", func() {
				done := q.add(climber("last"))
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer shutdownCancel()

				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then queued riders drain before the workers stop", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(waitFor(done), convey.ShouldBeTrue)
					_, stored := updater.get("last")
					convey.So(stored, convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when stopping", func() {
				finished := make(chan struct{})
				go func() {
					pool.Stop()
					close(finished)
				}()

				convey.Convey("Then Stop returns once the workers exit", func() {
					convey.So(waitFor(finished), convey.ShouldBeTrue)
				})
			})
		})
	})
}
