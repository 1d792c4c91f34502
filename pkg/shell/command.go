// Package shell runs external programs from an argument vector.
// No shell is involved, arguments are never re-parsed.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cmd holds the configuration to run an external command.
//
// A Cmd is a value: it can be run any number of times, and derived
// commands never alter the one they are derived from.
type Cmd struct {
	// Name is the program to run.
	Name string
	// Args are the arguments handed to the program, without the program itself.
	Args []string
	// Dir sets the working directory for the command.
	Dir string
	// Target runs the command. LocalTarget is used if nil.
	Target Target
	// Stdout receives the standard output if set.
	Stdout io.Writer
	// Stderr receives the standard error if set.
	Stderr io.Writer
}

// Target starts processes.
type Target interface {
	Start(cmd Cmd) (Process, error)
}

// Process is a started command.
type Process interface {
	// Wait blocks until the process exits or ctx is done.
	Wait(ctx context.Context) error
}

// Command returns a Cmd with the specified program and arguments.
func Command(name string, args ...string) Cmd {
	return Cmd{Name: name, Args: args}
}

// On returns a copy of the Cmd with Target set.
func (cmd Cmd) On(target Target) Cmd {
	cmd.Target = target
	return cmd
}

// In returns a copy of the Cmd with Dir set.
func (cmd Cmd) In(dir string) Cmd {
	cmd.Dir = dir
	return cmd
}

// Capture returns a copy of the Cmd with Stdout and Stderr set.
func (cmd Cmd) Capture(stdout, stderr io.Writer) Cmd {
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd
}

// With returns a copy of the Cmd with args appended to Args.
func (cmd Cmd) With(args ...string) Cmd {
	old := cmd.Args
	cmd.Args = make([]string, len(old)+len(args))
	copy(cmd.Args, old)
	copy(cmd.Args[len(old):], args)
	return cmd
}

// Argv returns the program followed by its arguments.
func (cmd Cmd) Argv() []string {
	return append([]string{cmd.Name}, cmd.Args...)
}

// Run starts the command and blocks until it completes or ctx is done.
func (cmd Cmd) Run(ctx context.Context) error {
	target := cmd.Target
	if target == nil {
		target = LocalTarget
	}
	process, err := target.Start(cmd)
	if err != nil {
		return fmt.Errorf("start %v error: %w", cmd, err)
	}
	return process.Wait(ctx)
}

// Format prints the command line, quoting arguments with spaces.
func (cmd Cmd) Format(f fmt.State, c rune) {
	fmt.Fprint(f, cmd.Name)
	if len(cmd.Args) > 0 {
		fmt.Fprint(f, " ", JoinArgs(cmd.Args))
	}
}

// JoinArgs joins args with spaces for display. Empty arguments and
// arguments with spaces are quoted.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for n, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t") {
			arg = strconv.Quote(arg)
		}
		quoted[n] = arg
	}
	return strings.Join(quoted, " ")
}

// ExitCode extracts the exit status from an error returned by Run.
// It returns false if err doesn't carry one.
func ExitCode(err error) (int, bool) {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code >= 0 {
			return code, true
		}
	}
	return 0, false
}
