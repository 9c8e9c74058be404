package property

import (
	"errors"
	"fmt"
)

var (
	ErrHookFailed   = errors.New("property hook failed")
	ErrReentrantSet = errors.New("property set while a previous set is still running")
)

// HookError carries the error returned by a hook. The value was not changed.
type HookError struct {
	Name string
	Err  error
}

func (e *HookError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("hook: %v", e.Err)
	}
	return fmt.Sprintf("hook %s: %v", e.Name, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

func (e *HookError) Is(target error) bool { return target == ErrHookFailed }
