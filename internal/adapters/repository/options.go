package repository

import "time"

// Option configures a TreapStore.
type Option func(*TreapStore)

// WithGaugeInterval sets how often the rider and ranked-rider gauges are
// refreshed. Non-positive values keep the default.
func WithGaugeInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.gaugeInterval = interval
		}
	}
}

// WithExpectedRiders pre-sizes the id index for a roster of about n riders.
func WithExpectedRiders(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.sizeHint = n
		}
	}
}
