package frontend

import (
	"errors"
	"fmt"
)

// ErrReadOnlyDevice is returned on any attempt to change tuner state through
// a handle that was opened read-only. The check happens before any ioctl.
var ErrReadOnlyDevice = errors.New("frontend: device is opened read-only")

// ErrClosed is returned when using a device after Close.
var ErrClosed = errors.New("frontend: device is closed")

// UnknownKeyError reports a key this package has no type information for.
type UnknownKeyError struct {
	Key Key
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("frontend: unknown property key %s", e.Key)
}

// TypeMismatchError reports a value whose tag disagrees with the type the
// key requires.
type TypeMismatchError struct {
	Key       Key
	Got, Want ValueKind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("frontend: %s wants a %s value, got %s", e.Key, e.Want, e.Got)
}

// DuplicateKeyError reports a key pushed twice into one sequence.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("frontend: duplicate property %s in sequence", e.Key)
}

// OutOfOrderError reports a property pushed after the TUNE commit marker,
// which must stay the final element of a sequence.
type OutOfOrderError struct {
	Key Key
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("frontend: property %s after commit marker", e.Key)
}

// MissingKeyError reports a mandatory key absent from a tune sequence.
type MissingKeyError struct {
	System DeliverySystem
	Key    Key
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("frontend: %s tune sequence is missing %s", e.System, e.Key)
}

// ValueRangeError reports a present value that fails the legal-range
// predicate of its key for the selected delivery system.
type ValueRangeError struct {
	Key    Key
	Value  uint32
	Reason string
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("frontend: %s value %d out of range: %s", e.Key, e.Value, e.Reason)
}
