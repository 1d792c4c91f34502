package emsbuild

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every error reported before any
	// filesystem mutation: unknown platform, bad option, missing input file.
	ErrValidation = errors.New("invalid build options")

	// ErrUnknownApp indicates the application is not defined.
	ErrUnknownApp = errors.New("unknown application")
)

// UnknownPlatformError is returned by Registry.Lookup.
type UnknownPlatformError struct {
	Name  string
	Known []string
}

// Error implements error.
func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q, choose from %s", e.Name, strings.Join(e.Known, ", "))
}

// Is makes UnknownPlatformError match ErrValidation.
func (e *UnknownPlatformError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationError reports an illegal option value or a missing input.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FilesystemError wraps an OS error raised while preparing a build directory.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

// Error implements error.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %q error: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ExternalProcessError reports a failed child process.
// Code is the exit status of the child, or -1 if it reported none.
type ExternalProcessError struct {
	Step    string
	Command string
	Code    int
	Err     error
}

// Error implements error.
func (e *ExternalProcessError) Error() string {
	if e.Code >= 0 {
		return fmt.Sprintf("step %s: %s exited with status %d", e.Step, e.Command, e.Code)
	}
	return fmt.Sprintf("step %s: %s: %v", e.Step, e.Command, e.Err)
}

// Unwrap returns the error from the process layer.
func (e *ExternalProcessError) Unwrap() error {
	return e.Err
}

// Exit codes used for errors that do not come from a child process.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps err to the process exit code of a build run.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var procErr *ExternalProcessError
	if errors.As(err, &procErr) {
		if procErr.Code > 0 {
			return procErr.Code
		}
		return ExitFailure
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrUnknownApp) {
		return ExitUsage
	}
	return ExitFailure
}
