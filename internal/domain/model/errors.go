package model

import "errors"

// Sentinel kinds for record validation.
var (
	ErrInvalidArticle = errors.New("invalid article")
	ErrInvalidSignup  = errors.New("invalid signup")
)
