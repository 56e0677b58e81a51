package verify

import "errors"

// Sentinel errors.
var (
	ErrUnhealthy        = errors.New("server is not healthy")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrNoExpected       = errors.New("local evaluation ranked no riders")
	ErrInvalidConfig    = errors.New("invalid verify config")
)
