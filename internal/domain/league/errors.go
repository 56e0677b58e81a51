package league

import "errors"

// Sentinel kinds for lookups that find nothing.
var (
	ErrRiderNotFound    = errors.New("rider not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrCountryNotFound  = errors.New("country not found")
	ErrDivisionNotFound = errors.New("division not found")
	ErrRaceNotFound     = errors.New("race not found")
)
