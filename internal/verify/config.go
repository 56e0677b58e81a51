// Package verify checks a running league server against a local evaluation
// of the same data directory.
package verify

import (
	"time"

	"github.com/okian/peloton/internal/domain/types"
)

// Config holds configuration for a verification run.
type Config struct {
	BaseURL string        // Base URL of the server
	TopN    int           // Leaderboard entries to compare
	Workers int           // Concurrent rank lookups
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every comparison
}

// Entry is a leaderboard entry as served by GET /api/leaderboard.
type Entry = types.Entry

// Mismatch is one disagreement between the server and the local evaluation.
type Mismatch struct {
	RiderID string `json:"rider_id"`
	Source  string `json:"source"` // "leaderboard" or "rank"
	Field   string `json:"field"`
	Want    string `json:"want"`
	Got     string `json:"got"`
}

// Report summarizes a verification run.
type Report struct {
	LeaderboardEntries int           `json:"leaderboard_entries"`
	RanksChecked       int           `json:"ranks_checked"`
	RankFailures       int           `json:"rank_failures"`
	Mismatches         []Mismatch    `json:"mismatches"`
	Duration           time.Duration `json:"duration"`
}

// OK reports whether the server agreed on everything that was checked.
func (r Report) OK() bool { return len(r.Mismatches) == 0 && r.RankFailures == 0 }
