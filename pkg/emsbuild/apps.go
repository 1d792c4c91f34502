package emsbuild

import (
	"fmt"

	"emsbench/pkg/tools/tgpp"
)

// App describes an application which can be built.
type App struct {
	// Name is the application directory name under embedded.
	Name string
	// Description is shown in command help.
	Description string
	// PerformanceLogging indicates the application supports -D__PERF__.
	PerformanceLogging bool
	// TraceInputs indicates the application needs the trace generator
	// preprocessor to produce a source file before building.
	TraceInputs bool
	// ExtraDefs are added to the generated Makefile.
	ExtraDefs []string
}

var apps = []App{
	{
		Name:               "ems",
		Description:        "Engine management system",
		PerformanceLogging: true,
	},
	{
		Name:        "tg",
		Description: "Trace generator",
		TraceInputs: true,
		ExtraDefs:   []string{"SUPP_C_SRC = " + tgpp.OutputFile},
	},
}

// Apps returns all applications.
func Apps() []App {
	list := make([]App, len(apps))
	for n, app := range apps {
		list[n] = app
		list[n].ExtraDefs = append([]string(nil), app.ExtraDefs...)
	}
	return list
}

// LookupApp finds an application by name.
func LookupApp(name string) (App, error) {
	for _, app := range Apps() {
		if app.Name == name {
			return app, nil
		}
	}
	return App{}, fmt.Errorf("%w: %q", ErrUnknownApp, name)
}
