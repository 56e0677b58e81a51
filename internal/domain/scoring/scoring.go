// Package scoring defines the contract for evaluating a rider: the overall
// rating and the archetype, computed together so every view sees the same
// pair.
package scoring

import (
	"context"
	"fmt"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/rating"
)

// Evaluation is the derived view of one rider. Archetype is the served label;
// Classified is always the classifier's own answer, so a pinned label never
// hides it.
type Evaluation struct {
	RiderID    string              `json:"rider_id"`
	Overall    rating.Overall      `json:"overall"`
	Archetype  archetype.Archetype `json:"type"`
	Classified archetype.Archetype `json:"classified_type"`
}

// Pinned reports whether the served archetype differs from the classifier.
func (e Evaluation) Pinned() bool { return e.Archetype != e.Classified }

// Evaluate runs the rating calculator and the archetype classifier.
func Evaluate(r model.Rider) Evaluation {
	a := archetype.Classify(r.Stats)
	return Evaluation{
		RiderID:    r.ID,
		Overall:    rating.Compute(r.Stats),
		Archetype:  a,
		Classified: a,
	}
}

// Scorer evaluates riders. Implementations must be safe for concurrent use.
type Scorer interface {
	// Score evaluates r, honoring ctx for cancellation.
	Score(ctx context.Context, r model.Rider) (Evaluation, error)
}

// Option applies a configuration option to the InMemoryScorer.
type Option func(*InMemoryScorer)

// WithArchetypeOverride pins the served archetype of a rider id. The
// classifier's label is still reported in Evaluation.Classified.
func WithArchetypeOverride(riderID string, a archetype.Archetype) Option {
	return func(s *InMemoryScorer) {
		if riderID != "" {
			s.overrides[riderID] = a
		}
	}
}

// InMemoryScorer implements Scorer with the pure evaluation functions.
type InMemoryScorer struct {
	overrides map[string]archetype.Archetype
}

// NewInMemoryScorer creates a scorer.
func NewInMemoryScorer(opts ...Option) *InMemoryScorer {
	s := &InMemoryScorer{overrides: make(map[string]archetype.Archetype)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates r.
func (s *InMemoryScorer) Score(ctx context.Context, r model.Rider) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, fmt.Errorf("context cancelled: %w", err)
	}
	if r.ID == "" {
		return Evaluation{}, ErrMissingRiderID
	}
	ev := Evaluate(r)
	if a, ok := s.overrides[r.ID]; ok {
		ev.Archetype = a
	}
	return ev, nil
}

// Assessment is the evaluation of an ad-hoc attribute set, with the
// classifier's reasoning.
type Assessment struct {
	Overall   rating.Overall      `json:"overall"`
	Level     rating.Level        `json:"level"`
	Archetype archetype.Archetype `json:"type"`
	Breakdown archetype.Breakdown `json:"breakdown"`
}

// Assess evaluates a raw attribute map.
func Assess(attrs map[string]string) Assessment {
	stats := model.StatsFromAttributes(attrs)
	overall := rating.Compute(stats)
	b := archetype.Explain(stats)
	return Assessment{
		Overall:   overall,
		Level:     rating.LevelOf(overall),
		Archetype: b.Winner,
		Breakdown: b,
	}
}
