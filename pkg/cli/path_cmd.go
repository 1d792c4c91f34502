package cli

import (
	"context"
	"os"

	"emsbench/pkg/emsbuild"
)

// PathCmd prints the build directory of an application.
type PathCmd struct {
	Platform string
	// Tree also prints the content of an existing build directory.
	Tree bool
}

// Execute executes the command.
func (c *PathCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
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
	dir := cctx.Workspace.Layout().ResolvePath(pf.Name, app.Name)
	var entries []string
	if _, statErr := os.Stat(dir); c.Tree && statErr == nil {
		if entries, err = emsbuild.Listing(dir); err != nil {
			return err
		}
	}
	cctx.UI.PrintPath(dir, entries)
	return nil
}
