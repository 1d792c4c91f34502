package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"

	"emsbench/pkg/emsbuild"
	"emsbench/pkg/shell"
)

// Command defines an abstract command.
type Command interface {
	Execute(ctx context.Context, cctx *Context, args ...string) error
}

// CommandFunc is the func form of Command.
type CommandFunc func(context.Context, *Context, ...string) error

// Execute implements Command.
func (f CommandFunc) Execute(ctx context.Context, cctx *Context, args ...string) error {
	return f(ctx, cctx, args...)
}

// EventHandlingOptions specifies options for how to handle run events.
type EventHandlingOptions struct {
	// Verbose is set when the output of external tools goes to the terminal.
	Verbose bool
}

// UserInterface defines the abstraction for interacting with the user.
type UserInterface interface {
	RunEventHandler(options EventHandlingOptions) emsbuild.EventHandler
	PrintPlatformList(platforms []emsbuild.Platform)
	PrintBuildList(builds []emsbuild.Build)
	PrintPath(path string, entries []string)
	PrintLog(io.Reader)
	PrintCheckResult(problems []error)
	PrintInfo(msg string)
	PrintError(err error)
}

// Context provides information about the environment for commands.
type Context struct {
	Workspace *emsbuild.Workspace
	UI        UserInterface
	// Target runs external commands.
	Target shell.Target
	Stdout io.Writer
	Stderr io.Writer
}

// ContextBuilder is used to build Context.
type ContextBuilder struct {
	WorkDir string
	TextUI  bool
	// Target overrides shell.LocalTarget.
	Target shell.Target
	// Stdout and Stderr override os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError carries the exit code of a failed command whose error has
// already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

// Error implements error.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the reported error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// BuildContext creates a context.
func (b *ContextBuilder) BuildContext() (*Context, error) {
	c := &Context{
		Target: b.Target,
		Stdout: b.Stdout,
		Stderr: b.Stderr,
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	c.UI = &TextPrinter{Out: c.Stdout, Err: c.Stderr}
	if b.TextUI {
		color.Disable()
	} else if term := os.Getenv("TERM"); term != "" && term != "dumb" {
		c.UI = &TermPrinter{Out: c.Stdout, Err: c.Stderr}
	}
	ws, err := emsbuild.NewWorkspace(b.WorkDir)
	if err != nil {
		c.UI.PrintError(err)
		return nil, err
	}
	c.Workspace = ws
	return c, nil
}

// BuildAndRun builds the context and runs the command.
// A returned error is always an *ExitError.
func (b *ContextBuilder) BuildAndRun(ctx context.Context, cmd Command, args ...string) error {
	cctx, err := b.BuildContext()
	if err != nil {
		return &ExitError{Code: emsbuild.ExitCode(err), Err: err}
	}
	if err := cctx.RunCmd(ctx, cmd, args...); err != nil {
		return &ExitError{Code: emsbuild.ExitCode(err), Err: err}
	}
	return nil
}

// RunCmd runs a command.
func (c *Context) RunCmd(ctx context.Context, cmd Command, args ...string) error {
	if err := cmd.Execute(ctx, c, args...); err != nil {
		c.UI.PrintError(err)
		return err
	}
	return nil
}

// Runner returns an emsbuild.Runner reporting to the UI.
func (c *Context) Runner(generator string, options EventHandlingOptions) *emsbuild.Runner {
	return &emsbuild.Runner{
		Workspace:    c.Workspace,
		Target:       c.Target,
		Generator:    generator,
		EventHandler: c.UI.RunEventHandler(options),
		Stdout:       c.Stdout,
		Stderr:       c.Stderr,
	}
}

// LookupPlatform finds a platform from the workspace registry.
func (c *Context) LookupPlatform(name string) (emsbuild.Platform, error) {
	if name == "" {
		return emsbuild.Platform{}, &emsbuild.ValidationError{
			Reason: fmt.Sprintf("missing platform, choose from %v", c.Workspace.Config.Registry.Names()),
		}
	}
	return c.Workspace.Config.Registry.Lookup(name)
}
