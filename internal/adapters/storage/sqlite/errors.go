package sqlite

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrOpen    = errors.New("open archive")
	ErrMigrate = errors.New("migrate archive")
	ErrQuery   = errors.New("query archive")
)
