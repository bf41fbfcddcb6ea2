package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a request the calculators refuse to run. Inputs
// that are merely degenerate (a zero price, an empty series) are not
// errors; they produce a zero result with a status instead.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
