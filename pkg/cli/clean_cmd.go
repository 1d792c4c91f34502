package cli

import (
	"context"
	"fmt"
)

// CleanCmd removes build directories matching the patterns in args, or all
// of them without args.
type CleanCmd struct {
}

// Execute executes the command.
func (c *CleanCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	builds, err := cctx.Workspace.ListBuilds(args...)
	if err != nil {
		return err
	}
	for _, build := range builds {
		if err := cctx.Workspace.RemoveBuild(build); err != nil {
			return err
		}
		cctx.UI.PrintInfo(fmt.Sprintf("Removed %s", build.Dir))
	}
	return nil
}
