package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks errors caused by bad input from the acting user. The
// handler layer reports these with 400 and a message naming the offending
// input; everything else is an infrastructure failure.
var ErrValidation = errors.New("validation error")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsValidation reports whether err is a user-input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
