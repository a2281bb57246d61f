package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInternal        = errors.New("internal error")
)

// Problem is one reason a request was rejected. IDs lists the offending
// identifiers when the problem concerns references.
type Problem struct {
	Field   string
	Message string
	IDs     []int64
}

// ValidationError collects every problem found in a request. It is returned
// before anything is written.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		s := p.Field + ": " + p.Message
		if len(p.IDs) > 0 {
			s += " (" + joinIDs(p.IDs) + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) Add(field, message string, ids ...int64) {
	e.Problems = append(e.Problems, Problem{Field: field, Message: message, IDs: ids})
}

// Err returns e as an error, or nil when no problem was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

// NotFoundError names the missing resources. IDs is empty when the lookup
// key is not numeric, for example a public profile id.
type NotFoundError struct {
	Resource string
	IDs      []int64
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return e.Resource + " not found"
	}
	return e.Resource + " not found: " + joinIDs(e.IDs)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(resource string, ids ...int64) error {
	return &NotFoundError{Resource: resource, IDs: ids}
}

// internal wraps err so that errors.Is(err, ErrInternal) holds while the
// cause stays available for logging.
func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}

// passThrough keeps typed usecase errors and wraps everything else as
// internal.
func passThrough(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrInternal) {
		return err
	}
	return internal(op, err)
}
