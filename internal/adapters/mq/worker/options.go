package worker

import (
	"github.com/okian/peloton/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// withCounter makes the worker count processed jobs into c.
func withCounter(c interface{ Add(int64) int64 }) Option {
	return func(w *InMemoryWorker) { w.processed = c }
}
