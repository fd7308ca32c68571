package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
)

// Exit codes for diplomat CLI
const (
	// ExitSuccess indicates the response was classified as successful
	ExitSuccess = 0

	// ExitFailed indicates the response was classified as failed
	ExitFailed = 1

	// ExitErrored indicates the response was classified as errored, or
	// never arrived
	ExitErrored = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries an exit status out of a command. Err may be nil when
// the output already explains the status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitWith(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// exitCodeFor maps an outcome to the process exit status.
func exitCodeFor(outcome handler.Outcome) int {
	switch outcome {
	case handler.OutcomeSuccessful:
		return ExitSuccess
	case handler.OutcomeFailed:
		return ExitFailed
	default:
		return ExitErrored
	}
}

// exitCode returns the status for an error returned by a command. Errors
// that did not come from a command body are cobra usage errors.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsageError
}
