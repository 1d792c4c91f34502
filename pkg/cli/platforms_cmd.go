package cli

import (
	"context"
)

// ListPlatformsCmd lists the supported platforms.
type ListPlatformsCmd struct {
}

// Execute executes the command.
func (c *ListPlatformsCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	cctx.UI.PrintPlatformList(cctx.Workspace.Config.Registry.Platforms())
	return nil
}
