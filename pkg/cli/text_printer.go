package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"emsbench/pkg/emsbuild"
)

// TextPrinter provides an output-only UserInterface in plain text.
type TextPrinter struct {
	Out io.Writer
	Err io.Writer
}

// RunEventHandler implements UserInterface.
func (p *TextPrinter) RunEventHandler(options EventHandlingOptions) emsbuild.EventHandler {
	return &textRunPrinter{writer: p.out(), verbose: options.Verbose}
}

// PrintPlatformList prints platform list.
func (p *TextPrinter) PrintPlatformList(platforms []emsbuild.Platform) {
	for _, pf := range platforms {
		if pf.HasBSP {
			fmt.Fprintf(p.out(), "%s bsp\n", pf.Name)
		} else {
			fmt.Fprintln(p.out(), pf.Name)
		}
	}
}

// PrintBuildList prints build directory list.
func (p *TextPrinter) PrintBuildList(builds []emsbuild.Build) {
	for _, build := range builds {
		fmt.Fprintf(p.out(), "%s %s\n", build.Name, build.Dir)
	}
}

// PrintPath prints a build directory path and its contents.
func (p *TextPrinter) PrintPath(path string, entries []string) {
	fmt.Fprintln(p.out(), path)
	if entries != nil {
		if err := printTree(p.out(), path, entries); err != nil {
			p.PrintError(err)
		}
	}
}

// PrintLog prints log from reader.
func (p *TextPrinter) PrintLog(reader io.Reader) {
	io.Copy(p.out(), reader)
}

// PrintCheckResult prints problems found by check.
func (p *TextPrinter) PrintCheckResult(problems []error) {
	if len(problems) == 0 {
		fmt.Fprintln(p.out(), "OK")
		return
	}
	for _, problem := range problems {
		fmt.Fprintf(p.out(), "PROBLEM %v\n", problem)
	}
}

// PrintInfo implements UserInterface.
func (p *TextPrinter) PrintInfo(msg string) {
	fmt.Fprintln(p.out(), msg)
}

// PrintError implements UserInterface.
func (p *TextPrinter) PrintError(err error) {
	fmt.Fprintf(p.err(), "Error: %v.\n", err)
}

func (p *TextPrinter) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *TextPrinter) err() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return os.Stderr
}

type textRunPrinter struct {
	writer    io.Writer
	verbose   bool
	succeeded int
	skipped   int
	failed    int
}

func (p *textRunPrinter) HandleEvent(ctx context.Context, event emsbuild.RunEvent) {
	plan := event.Plan()
	progress := fmt.Sprintf("[%d/%d]", plan.Completed(), len(plan.Steps))
	switch ev := event.(type) {
	case *emsbuild.RunStartEvent:
		p.succeeded, p.skipped, p.failed = 0, 0, 0
		for _, line := range describePlan(plan) {
			fmt.Fprintln(p.writer, line)
		}
		fmt.Fprintf(p.writer, "BUILD START dir=%s steps=%d\n", plan.Dir, len(plan.Steps))
	case *emsbuild.RunEndEvent:
		fmt.Fprintf(p.writer, "BUILD END succeeded=%d skipped=%d failed=%d\n", p.succeeded, p.skipped, p.failed)
	case *emsbuild.StepStartEvent:
		fmt.Fprintf(p.writer, "%s START %s: %s\n", progress, ev.Step.Name, ev.Step.Title)
	case *emsbuild.StepCompleteEvent:
		step := ev.Step
		switch {
		case step.Skipped():
			p.skipped++
			fmt.Fprintf(p.writer, "%s SKIPPED %s: %s\n", progress, step.Name, step.Skip)
		case step.Failed():
			p.failed++
			fmt.Fprintf(p.writer, "%s FAILED %s: %v\n", progress, step.Name, step.Err)
			if step.Cmd != nil && !p.verbose {
				fmt.Fprintf(p.writer, "    output in %s\n", plan.LogFile)
			}
		default:
			p.succeeded++
			fmt.Fprintf(p.writer, "%s DONE %s\n", progress, step.Name)
		}
	}
}
