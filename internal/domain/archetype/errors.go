package archetype

import "errors"

// ErrUnknown reports a label that names no archetype.
var ErrUnknown = errors.New("unknown archetype")
