package shape

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch matches every MissingKeyError, UnexpectedKeyError
	// and TypeMismatchError via errors.Is.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDecode matches DecodeError via errors.Is.
	ErrDecode = errors.New("invalid JSON subject")
)

// DecodeError reports a subject that could not be turned into JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %v", ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// MissingKeyError reports a declared key absent from a mapping.
type MissingKeyError struct {
	Path     string
	Key      string
	Expected Spec
	Actual   Node
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("expected element %q not found at %s in %s, expecting %s",
		e.Key, e.Path, e.Actual, e.Expected)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrShapeMismatch }

// UnexpectedKeyError reports a mapping key that the spec level does not
// declare.
type UnexpectedKeyError struct {
	Path     string
	Key      string
	Expected Spec
	Actual   Node
}

func (e *UnexpectedKeyError) Error() string {
	return fmt.Sprintf("unexpected element %q found at %s in %s, expecting %s",
		e.Key, e.Path, e.Actual, e.Expected)
}

func (e *UnexpectedKeyError) Is(target error) bool { return target == ErrShapeMismatch }

// TypeMismatchError reports a node whose kind cannot satisfy the spec level,
// such as a scalar where a mapping with keys was expected.
type TypeMismatchError struct {
	Path     string
	Want     Kind
	Got      Kind
	Expected Spec
	Actual   Node
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s at %s but found %s %s, expecting %s",
		e.Want, e.Path, e.Got, e.Actual, e.Expected)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }
