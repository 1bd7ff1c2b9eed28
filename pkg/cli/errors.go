package cli

import "errors"

// Process exit codes. Scripts rely on the distinction between a broken
// invocation and a policy that failed validation.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitInvalidPolicy = 2
)

// ExitError carries a specific process exit code alongside its cause.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WithCode wraps err so the process exits with the given code. A nil err
// passes through unchanged.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned from command execution to the process
// exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFailure
}
