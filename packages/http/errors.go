package http

import "errors"

var (
	// ErrInvalidDestination is returned when a destination has no host or an
	// unsupported scheme.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrNoClassifier is returned when a client is built without a classifier.
	ErrNoClassifier = errors.New("no classifier")
)
