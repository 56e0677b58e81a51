// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank      int    `json:"rank"`
	RiderID   string `json:"rider_id"`
	Name      string `json:"name"`
	TeamID    string `json:"team_id"`
	Overall   int    `json:"overall"`
	Archetype string `json:"type"`

	// Classified is set only when Archetype was pinned by staff.
	Classified string `json:"classified_type,omitempty"`
}
