package cli

import (
	"context"
)

// ListBuildsCmd lists existing build directories, optionally filtered by
// patterns given as args.
type ListBuildsCmd struct {
}

// Execute executes the command.
func (c *ListBuildsCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	builds, err := cctx.Workspace.ListBuilds(args...)
	if err != nil {
		return err
	}
	cctx.UI.PrintBuildList(builds)
	return nil
}
