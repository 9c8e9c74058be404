package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrHookFailure       = errors.New("hook failure")
	ErrSupplierExhausted = errors.New("challenge supplier exhausted")
	ErrInvalidLevel      = errors.New("invalid level")
	ErrInvalidVisibility = errors.New("invalid visibility")
)

// TransitionError reports an intent that is not legal in the current flow.
// Nothing was changed.
type TransitionError struct {
	Flow   Flow
	Intent Intent
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in %s", e.Intent, e.Flow)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
