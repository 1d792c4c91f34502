package cli

import (
	"context"

	"emsbench/pkg/emsbuild"
)

// UploadCmd uploads an existing build to the target.
type UploadCmd struct {
	Platform string
	Verbose  bool
}

// Execute executes the command. args are the application name followed by
// the upload options.
func (c *UploadCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	if len(args) == 0 {
		return &emsbuild.ValidationError{Reason: "missing application"}
	}
	app, err := emsbuild.LookupApp(args[0])
	if err != nil {
		return err
	}
	if _, err := cctx.LookupPlatform(c.Platform); err != nil {
		return err
	}
	runner := cctx.Runner("", EventHandlingOptions{Verbose: c.Verbose})
	plan, err := runner.PlanUpload(app, c.Platform, args[1:], c.Verbose)
	if err != nil {
		return err
	}
	if err := runner.Execute(ctx, plan); err != nil {
		return interpretRunError(err)
	}
	return nil
}
