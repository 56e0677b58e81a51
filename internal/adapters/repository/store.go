// Package repository holds the league state outside the domain: the source
// the tables are read from, the cache in front of it and the ranking store
// the evaluation workers write to.
package repository

import (
	"context"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/scoring"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank      int
	RiderID   string
	Overall   int
	Archetype archetype.Archetype
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Put records the evaluation of a rider, replacing any previous one.
	Put(ctx context.Context, ev scoring.Evaluation) error

	// Get returns the stored evaluation of a rider.
	Get(ctx context.Context, riderID string) (scoring.Evaluation, bool)

	// Rank returns the current rank and overall of a rider.
	// Returns ErrNotFound if the rider is unknown and ErrUnranked if it has
	// no overall rating.
	Rank(ctx context.Context, riderID string) (Entry, error)

	// TopN returns the top-N rated riders ordered by overall desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of riders stored, rated or not.
	Count(ctx context.Context) int

	// All returns a copy of every stored evaluation keyed by rider id.
	All(ctx context.Context) map[string]scoring.Evaluation

	// Reset forgets every rider.
	Reset(ctx context.Context)
}
