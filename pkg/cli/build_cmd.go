package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"emsbench/pkg/emsbuild"
)

// BuildCmd builds an application for a platform.
type BuildCmd struct {
	App     string
	Options emsbuild.BuildOptions
	Upload  UploadFlag
	CarData string
	Cycle   string
}

// Execute executes the command.
func (c *BuildCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	if len(args) > 0 {
		return &emsbuild.ValidationError{Reason: fmt.Sprintf("unexpected arguments %q", args)}
	}
	_, err := c.Build(ctx, cctx)
	return err
}

// Build plans and runs the build, the returned plan is nil if validation fails.
func (c *BuildCmd) Build(ctx context.Context, cctx *Context) (*emsbuild.Plan, error) {
	app, err := emsbuild.LookupApp(c.App)
	if err != nil {
		return nil, err
	}
	if _, err := cctx.LookupPlatform(c.Options.Platform); err != nil {
		return nil, err
	}
	opts := c.Options
	opts.App = app.Name
	opts.UploadOptions = c.Upload.Options()
	var inputs *emsbuild.TraceInputs
	if app.TraceInputs {
		inputs = &emsbuild.TraceInputs{
			CarData: cctx.absPath(c.CarData),
			Cycle:   cctx.absPath(c.Cycle),
		}
	}
	runner := cctx.Runner("emsbench "+app.Name, EventHandlingOptions{Verbose: opts.Verbose})
	plan, err := runner.Run(ctx, app, opts, inputs)
	return plan, interpretRunError(err)
}

func interpretRunError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("canceled: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("timeout: %w", err)
	}
	return err
}

// absPath resolves a user supplied path against the working directory.
func (c *Context) absPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Workspace.WorkDir, path)
}
