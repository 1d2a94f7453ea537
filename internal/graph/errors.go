package graph

import "errors"

// Precondition failures. Operations panic with an error wrapping one of
// these; recover and test with errors.Is.
var (
	// ErrOutOfRange means a node id outside [1, Capacity) was passed in.
	ErrOutOfRange = errors.New("node id out of range")

	// ErrUninitialized means the graph was used before Init.
	ErrUninitialized = errors.New("graph used before Init")
)
