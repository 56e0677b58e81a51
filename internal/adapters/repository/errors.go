package repository

import "errors"

// Sentinel kinds for ranking and loading errors.
var (
	ErrNotFound     = errors.New("rider not found")
	ErrUnranked     = errors.New("rider has no overall rating")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrLoad         = errors.New("load league tables")
)
