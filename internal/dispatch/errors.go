package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks conflicting or missing flags. It is always
	// reported before any network access.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks a malformed address.
	ErrValidation = errors.New("validation error")
	// ErrNotContract is returned when the target address carries no code.
	ErrNotContract = fmt.Errorf("%w: externally-owned account (EOA) detected, not a contract", ErrValidation)
)
