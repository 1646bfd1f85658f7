package grader

import (
	"errors"
	"fmt"
)

// Feedback texts for recoverable response problems.
const (
	FeedbackNoResponse = "No response submitted."
)

var (
	// ErrNoAnswer is returned when the answer is empty.
	ErrNoAnswer = errors.New("no answer given")
	// ErrSubstitutions wraps rule grammar failures in substitutions and
	// quantities.
	ErrSubstitutions = errors.New("list of substitutions not written correctly")
)

// AuthoringError is a problem with the question definition: parameters,
// substitutions or the answer. It is always returned to the caller.
type AuthoringError struct {
	Op  string
	Err error
}

func (e *AuthoringError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthoringError) Unwrap() error { return e.Err }

// ResponseError is a problem with the learner's response. Evaluate turns
// it into an incorrect Result and never returns it.
type ResponseError struct {
	Op  string
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// IsAuthoring reports whether err is or wraps an *AuthoringError.
func IsAuthoring(err error) bool {
	var ae *AuthoringError
	return errors.As(err, &ae)
}

// IsResponse reports whether err is or wraps a *ResponseError.
func IsResponse(err error) bool {
	var re *ResponseError
	return errors.As(err, &re)
}

func authoring(op string, err error) error {
	return &AuthoringError{Op: op, Err: err}
}

func substitutionsError(op string, err error) error {
	return &AuthoringError{Op: op, Err: fmt.Errorf("%w: %w", ErrSubstitutions, err)}
}
