package main

import "errors"

var (
	// ErrNotFound means an id no longer refers to an element or image. It
	// usually comes from a late callback racing a delete and is a no-op.
	ErrNotFound = errors.New("element not found")

	// ErrInvalidInput is shown to the user and aborts the operation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateGeometry rejects a resize below the minimum box. The
	// previous geometry, including position, is kept.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInvalidGeometry is returned for caller-supplied sizes that are not
	// positive or point lists that cannot form a polygon.
	ErrInvalidGeometry = errors.New("invalid geometry")
)
