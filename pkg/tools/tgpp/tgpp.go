// Package tgpp drives the trace generator preprocessor, which converts car
// data and a driving cycle into a C source file for the trace generator.
package tgpp

import (
	"path/filepath"

	"emsbench/pkg/shell"
	"emsbench/pkg/tools/gmake"
)

// Executable is the name of the preprocessor binary inside its directory.
const Executable = "tgpp"

// OutputFile is the generated source file, referenced by the trace generator
// Makefile through SUPP_C_SRC.
const OutputFile = "trace.c"

// Build returns the command building the preprocessor in dir.
func Build(dir string) shell.Cmd {
	return gmake.Build(dir)
}

// Generate returns the command writing the trace source to out.
func Generate(dir, out, carData, cycle string) shell.Cmd {
	return shell.Command(filepath.Join(dir, Executable), "-o", out, carData, cycle)
}
