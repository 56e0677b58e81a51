package worker

import "errors"

// ErrNoStore is returned when a job has no store and the worker no updater.
var ErrNoStore = errors.New("no store for evaluation")
