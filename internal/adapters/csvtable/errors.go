package csvtable

import "errors"

// Sentinel kinds for table parsing.
var (
	ErrRead      = errors.New("read table")
	ErrMalformed = errors.New("malformed table")
	ErrNoHeader  = errors.New("table has no header row")
)
