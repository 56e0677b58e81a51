package scoring

import "errors"

// ErrMissingRiderID is returned for riders without an id.
var ErrMissingRiderID = errors.New("rider id is required")
