package filter

import "errors"

// ErrInvalidExpression is returned for filter expressions that do not compile
// to a boolean.
var ErrInvalidExpression = errors.New("invalid filter expression")
