package emsbuild

import (
	"os"
	"strings"
)

// LineKind classifies a line of a generated Makefile.
type LineKind int

// Line kinds in the order they appear.
const (
	LineComment LineKind = iota
	LineBlank
	LineVariable
	LineFlag
	LineExtra
	LineInclude
)

var lineKindNames = [...]string{
	LineComment:  "comment",
	LineBlank:    "blank",
	LineVariable: "variable",
	LineFlag:     "flag",
	LineExtra:    "extra",
	LineInclude:  "include",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// Line is a single record of a Makefile document.
type Line struct {
	Kind LineKind
	Text string
}

// Makefile is the generated build-control document of a build directory.
type Makefile struct {
	lines []Line
}

// Preprocessor definitions of the build options.
const (
	DefSpeedPrefix = "__SPEED__"
	DefLog         = "__LOG__"
	DefDebug       = "__DEBUG__"
	DefPerf        = "__PERF__"
)

// BaseRulesFile is included at the end of every generated Makefile.
const BaseRulesFile = "$(BASE)/conf/build.mk"

// NewMakefile builds the document for opts. relBase is the path from the
// build directory to the embedded directory, generator names the program
// creating the file.
func NewMakefile(opts BuildOptions, relBase, generator string, extraDefs []string) *Makefile {
	m := &Makefile{}
	m.add(LineComment, "# Makefile for building "+opts.App+" on platform "+opts.Platform)
	m.add(LineComment, "# This file was created by "+generator)
	m.add(LineBlank, "")
	m.add(LineVariable, "ARCH = "+opts.Platform)
	m.add(LineVariable, "APP = "+opts.App)
	m.add(LineVariable, "BASE = "+relBase)
	m.define(DefSpeedPrefix + opts.Speed)
	if opts.Logging {
		m.define(DefLog)
	}
	if opts.DebugOutput {
		m.define(DefDebug)
	}
	if opts.PerformanceLogging {
		m.define(DefPerf)
	}
	m.add(LineBlank, "")
	for _, def := range extraDefs {
		m.add(LineExtra, def)
	}
	m.add(LineBlank, "")
	m.add(LineInclude, "include "+BaseRulesFile)
	return m
}

// RenderMakefile returns the text of the Makefile for opts.
// The result only depends on the arguments.
func RenderMakefile(opts BuildOptions, relBase, generator string, extraDefs []string) string {
	return NewMakefile(opts, relBase, generator, extraDefs).String()
}

func (m *Makefile) add(kind LineKind, text string) {
	m.lines = append(m.lines, Line{Kind: kind, Text: text})
}

func (m *Makefile) define(name string) {
	m.add(LineFlag, "CPPFLAGS += -D"+name)
}

// Lines returns a copy of the line records.
func (m *Makefile) Lines() []Line {
	return append([]Line(nil), m.lines...)
}

// String renders the document.
func (m *Makefile) String() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteMakefile writes doc to path, replacing any existing file.
func WriteMakefile(path string, doc *Makefile) error {
	if err := os.WriteFile(path, []byte(doc.String()), 0644); err != nil {
		return &FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}
