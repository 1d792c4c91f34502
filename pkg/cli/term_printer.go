package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gookit/color"

	"emsbench/pkg/emsbuild"
)

var (
	statusStyle = color.New(color.FgCyan, color.OpBold)
	errorStyle  = color.New(color.FgRed, color.OpBold)
	errorText   = color.New(color.FgRed)
	okStyle     = color.New(color.FgGreen, color.OpBold)
	skipStyle   = color.New(color.FgCyan)
	durStyle    = color.New(color.FgMagenta, color.OpBold)
	dimStyle    = color.New(color.FgWhite)
	nameStyle   = color.New(color.FgCyan, color.OpBold)
)

// TermPrinter provides an output-only UserInterface for ANSI terminal.
type TermPrinter struct {
	Out io.Writer
	Err io.Writer
}

// RunEventHandler implements UserInterface.
func (p *TermPrinter) RunEventHandler(options EventHandlingOptions) emsbuild.EventHandler {
	return &termRunPrinter{writer: p.out(), verbose: options.Verbose}
}

// PrintPlatformList prints platform list.
func (p *TermPrinter) PrintPlatformList(platforms []emsbuild.Platform) {
	for _, pf := range platforms {
		if pf.HasBSP {
			fmt.Fprintf(p.out(), "%s %s\n", nameStyle.Sprint(pf.Name), dimStyle.Sprint("[bsp]"))
		} else {
			fmt.Fprintln(p.out(), nameStyle.Sprint(pf.Name))
		}
	}
}

// PrintBuildList prints build directory list.
func (p *TermPrinter) PrintBuildList(builds []emsbuild.Build) {
	for _, build := range builds {
		if build.Platform == "" {
			fmt.Fprintf(p.out(), "%s %s\n", skipStyle.Sprint(build.Name), errorText.Sprint("(unknown platform)"))
			continue
		}
		fmt.Fprintf(p.out(), "%s %s\n", nameStyle.Sprint(build.Name), dimStyle.Sprintf("[%s]", build.Dir))
	}
}

// PrintPath prints a build directory path and its contents.
func (p *TermPrinter) PrintPath(path string, entries []string) {
	fmt.Fprintln(p.out(), okStyle.Sprint(path))
	if entries != nil {
		if err := printTree(p.out(), path, entries); err != nil {
			p.PrintError(err)
		}
	}
}

// PrintLog prints log from reader.
func (p *TermPrinter) PrintLog(reader io.Reader) {
	io.Copy(p.out(), reader)
}

// PrintCheckResult prints problems found by check.
func (p *TermPrinter) PrintCheckResult(problems []error) {
	if len(problems) == 0 {
		fmt.Fprintln(p.out(), okStyle.Sprint("OK"))
		return
	}
	for _, problem := range problems {
		fmt.Fprintf(p.out(), "%s %s\n", errorStyle.Sprint(":("), errorText.Sprint(problem))
	}
}

// PrintInfo implements UserInterface.
func (p *TermPrinter) PrintInfo(msg string) {
	fmt.Fprintln(p.out(), msg)
}

// PrintError implements UserInterface.
func (p *TermPrinter) PrintError(err error) {
	fmt.Fprintf(p.err(), "%s %s\n", errorStyle.Sprint("Error:"), errorText.Sprintf("%v.", err))
}

func (p *TermPrinter) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *TermPrinter) err() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return os.Stderr
}

type termRunPrinter struct {
	writer  io.Writer
	verbose bool
}

func (p *termRunPrinter) HandleEvent(ctx context.Context, event emsbuild.RunEvent) {
	plan := event.Plan()
	switch ev := event.(type) {
	case *emsbuild.RunStartEvent:
		for _, line := range describePlan(plan) {
			p.printf("%s\n", line)
		}
	case *emsbuild.StepStartEvent:
		p.printf("%s\n", statusStyle.Sprint(ev.Step.Title))
	case *emsbuild.StepCompleteEvent:
		step := ev.Step
		switch {
		case step.Skipped():
			p.printf("%s %s\n", skipStyle.Sprint(":]"), step.Skip)
		case step.Failed():
			p.printf("%s %s %s\n", errorStyle.Sprint(":("), dimStyle.Sprint(step.Name), durStyle.Sprint(stepDuration(step)))
			if step.Cmd != nil && !p.verbose {
				p.printf("    %s\n", errorText.Sprintf("Output of %s is in %s", step.Name, plan.LogFile))
			}
		default:
			p.printf("%s %s %s\n", okStyle.Sprint(":)"), dimStyle.Sprint(step.Name), durStyle.Sprint(stepDuration(step)))
		}
	case *emsbuild.RunEndEvent:
		if ev.Err == nil {
			p.printf("%s %s\n", okStyle.Sprint("OK"), plan.Dir)
		}
	}
}

func (p *termRunPrinter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, format, args...)
}

func stepDuration(step *emsbuild.Step) time.Duration {
	return step.EndTime.Sub(step.StartTime).Truncate(time.Millisecond)
}

// describePlan returns the informational lines printed before a run.
func describePlan(plan *emsbuild.Plan) []string {
	opts := plan.Options
	lines := []string{"Building " + plan.App.Name + " for platform " + plan.Platform.Name}
	if opts.Upload() {
		lines = append(lines, "Upload using options '"+*opts.UploadOptions+"'")
	} else {
		lines = append(lines, "No upload")
	}
	if plan.Inputs != nil {
		lines = append(lines,
			"Using car data from "+plan.Inputs.CarData,
			"Using driving cycle from "+plan.Inputs.Cycle)
	}
	if opts.Logging {
		lines = append(lines, "Building with data logging")
	}
	if opts.DebugOutput {
		lines = append(lines, "Building with debug output")
	}
	if opts.PerformanceLogging {
		lines = append(lines, "Building with performance logging")
	}
	return lines
}
