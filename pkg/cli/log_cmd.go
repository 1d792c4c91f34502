package cli

import (
	"context"
	"os"

	"emsbench/pkg/emsbuild"
)

// LogCmd prints the output of the last build of an application.
type LogCmd struct {
	Platform string
}

// Execute executes the command.
func (c *LogCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	if len(args) != 1 {
		return &emsbuild.ValidationError{Reason: "specify exactly one application"}
	}
	app, err := emsbuild.LookupApp(args[0])
	if err != nil {
		return err
	}
	pf, err := cctx.LookupPlatform(c.Platform)
	if err != nil {
		return err
	}
	logFn := cctx.Workspace.LogFile(emsbuild.DirName(pf.Name, app.Name))
	f, err := os.Open(logFn)
	if err != nil {
		return &emsbuild.FilesystemError{Op: "open", Path: logFn, Err: err}
	}
	defer f.Close()
	cctx.UI.PrintLog(f)
	return nil
}
