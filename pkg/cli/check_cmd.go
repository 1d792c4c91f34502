package cli

import (
	"context"
	"fmt"
)

// CheckCmd checks the workspace contains what builds rely on.
type CheckCmd struct {
}

// Execute executes the command.
func (c *CheckCmd) Execute(ctx context.Context, cctx *Context, args ...string) error {
	problems := cctx.Workspace.Check()
	cctx.UI.PrintCheckResult(problems)
	if len(problems) > 0 {
		return fmt.Errorf("%d problems found in %s", len(problems), cctx.Workspace.RootDir)
	}
	return nil
}
