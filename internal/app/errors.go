package service

import "errors"

var (
	// ErrNotLoaded is returned by read operations before the first successful reload.
	ErrNotLoaded = errors.New("league data not loaded")

	// ErrNotStarted is returned when an operation needs the evaluation pipeline.
	ErrNotStarted = errors.New("service not started")

	// ErrNoArchive is returned by news and signup operations when no archive is configured.
	ErrNoArchive = errors.New("archive not configured")

	// ErrNoSource is returned by Reload when no table source is configured.
	ErrNoSource = errors.New("table source not configured")

	// ErrTeamUnavailable is returned when a signup targets a team that already has a manager.
	ErrTeamUnavailable = errors.New("team is not available")

	// ErrInvalidLimit is returned when a leaderboard limit is outside 1..max.
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
