package cli

import (
	"errors"
	"fmt"
)

// Every failure exits with ExitCodeFailure; callers read the reason from stderr.
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeFailure
	}
	return e.Code
}

func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	return &ExitError{Code: ExitCodeFailure, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeFailure,
		Err:  fmt.Errorf(format, args...),
	}
}
