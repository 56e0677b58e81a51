package api

import "github.com/okian/peloton/pkg/logger"

type options struct {
	maxLimit  int
	perMinute int
	burst     int
	logger    logger.Logger
}

// Option configures a Server.
type Option func(*options)

// WithMaxLeaderboardLimit caps the limit accepted by GET /api/leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}

// WithWriteLimit sizes the per-client token bucket in front of the POST
// endpoints. A non-positive rate disables limiting.
func WithWriteLimit(perMinute, burst int) Option {
	return func(o *options) {
		o.perMinute = perMinute
		o.burst = burst
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
