package fixturedb

import "errors"

var (
	// ErrNotFound indicates the requested fixture does not exist.
	ErrNotFound = errors.New("fixture not found")

	// ErrConcurrentUpdate indicates the fixture changed since it was read.
	ErrConcurrentUpdate = errors.New("fixture was updated by someone else")
)
