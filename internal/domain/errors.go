package domain

import "errors"

var (
	// ErrNoGif is returned when the gif lookup yields no result
	ErrNoGif = errors.New("no gif available")

	// ErrUpdateStreamClosed is returned when the platform update stream terminates
	ErrUpdateStreamClosed = errors.New("platform update stream closed")

	// ErrEventStreamClosed is returned when the fork event stream terminates
	ErrEventStreamClosed = errors.New("fork event stream closed")
)
