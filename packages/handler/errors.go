package handler

import (
	"errors"
	"fmt"
)

// ErrUnknownClassifier is returned by ByName for an unregistered kind.
var ErrUnknownClassifier = errors.New("unknown classifier")

// FilterError wraps a fault raised by a filter.
type FilterError struct {
	Index int
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %d: %v", e.Index, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}
