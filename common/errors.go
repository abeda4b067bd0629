package common

import (
	"errors"
	"fmt"
)

var ErrPrecondition = errors.New("precondition violated")
var ErrInvariant = errors.New("internal invariant violated")
var ErrCapacity = errors.New("capacity limit exceeded")

func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

func Capacityf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCapacity, fmt.Sprintf(format, args...))
}
