// Package gmake builds the command lines of the external make invocations.
package gmake

import (
	"emsbench/pkg/shell"
)

// Program is the make executable.
var Program = "make"

// Build returns the command building the default goal in dir.
func Build(dir string) shell.Cmd {
	return shell.Command(Program, "-C", dir)
}

// Upload returns the command running the upload rule in dir, args are
// passed to make unchanged.
func Upload(dir string, args ...string) shell.Cmd {
	return shell.Command(Program, "upload", "-C", dir).With(args...)
}
