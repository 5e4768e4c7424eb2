package common

import "errors"

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation error")

	// ErrInvalidSession is returned when a session would be only partially set.
	ErrInvalidSession = errors.New("token and username are both required")
)
