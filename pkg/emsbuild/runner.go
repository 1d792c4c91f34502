package emsbuild

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"emsbench/pkg/shell"
	"emsbench/pkg/tools/gmake"
	"emsbench/pkg/tools/tgpp"
)

// Step names.
const (
	StepClean    = "clean"
	StepMakefile = "makefile"
	StepBSP      = "bsp"
	StepTgpp     = "tgpp"
	StepTrace    = "trace"
	StepBuild    = "build"
	StepUpload   = "upload"
)

// DefaultGenerator is written into Makefiles when Runner.Generator is empty.
const DefaultGenerator = "emsbench"

// Step is a single action of a build run.
type Step struct {
	// Name identifies the step, one of the Step* constants.
	Name string
	// Title is the status message shown when the step starts.
	Title string
	// Skip is the reason why the step doesn't run, empty if it runs.
	Skip string
	// Cmd is the external command of the step, nil for internal steps.
	Cmd *shell.Cmd

	action func(ctx context.Context) error

	StartTime time.Time
	EndTime   time.Time
	Err       error
	done      bool
}

// Skipped reports whether the step doesn't run.
func (s *Step) Skipped() bool {
	return s.Skip != ""
}

// Failed reports whether the step ran and failed.
func (s *Step) Failed() bool {
	return s.Err != nil
}

// Done reports whether the step is completed or skipped.
func (s *Step) Done() bool {
	return s.done
}

// Plan is the ordered list of steps building an application.
type Plan struct {
	App      App
	Platform Platform
	Options  BuildOptions
	// Inputs is only set for applications using trace inputs.
	Inputs *TraceInputs
	// Dir is the build directory.
	Dir string
	// LogFile receives the output of external commands.
	LogFile string
	// AppendLog keeps the previous content of LogFile.
	AppendLog bool
	Steps     []*Step
}

// Step finds a step by name.
func (p *Plan) Step(name string) *Step {
	for _, step := range p.Steps {
		if step.Name == name {
			return step
		}
	}
	return nil
}

// StepNames returns the names of all steps in order.
func (p *Plan) StepNames() []string {
	names := make([]string, len(p.Steps))
	for n, step := range p.Steps {
		names[n] = step.Name
	}
	return names
}

// Completed returns the number of steps done.
func (p *Plan) Completed() int {
	count := 0
	for _, step := range p.Steps {
		if step.done {
			count++
		}
	}
	return count
}

func (p *Plan) add(step *Step) {
	p.Steps = append(p.Steps, step)
}

// Runner plans and executes build runs in a workspace.
// Steps run strictly in sequence, the first failing step halts the run.
type Runner struct {
	Workspace *Workspace
	// Target runs external commands, shell.LocalTarget if nil.
	Target shell.Target
	// Generator is written into the header of generated Makefiles.
	Generator    string
	EventHandler EventHandler
	// Stdout and Stderr receive the output of external commands in
	// verbose mode, os.Stdout and os.Stderr if nil.
	Stdout io.Writer
	Stderr io.Writer
}

// Plan validates opts and creates the steps building app.
// Nothing is changed on the filesystem.
func (r *Runner) Plan(app App, opts BuildOptions, inputs *TraceInputs) (*Plan, error) {
	ws, cfg := r.Workspace, r.Workspace.Config
	if opts.App == "" {
		opts.App = app.Name
	}
	if opts.App != app.Name {
		return nil, &ValidationError{Field: "App", Reason: fmt.Sprintf("%q doesn't match application %q", opts.App, app.Name)}
	}
	if opts.Speed == "" {
		opts.Speed = cfg.Registry.DefaultSpeed()
	}
	if err := Validate(cfg.Registry, opts); err != nil {
		return nil, err
	}
	if opts.PerformanceLogging && !app.PerformanceLogging {
		return nil, &ValidationError{Field: "PerformanceLogging", Reason: "not supported by " + app.Name}
	}
	if app.TraceInputs {
		if inputs == nil {
			return nil, &ValidationError{Reason: "car data and driving cycle files are required by " + app.Name}
		}
		if err := ValidateInputs(*inputs); err != nil {
			return nil, err
		}
	} else {
		inputs = nil
	}
	opts.ExtraDefs = append(append([]string(nil), app.ExtraDefs...), opts.ExtraDefs...)

	pf, _ := cfg.Registry.Lookup(opts.Platform)
	layout := ws.Layout()
	dir := layout.ResolvePath(pf.Name, app.Name)
	p := &Plan{
		App:      app,
		Platform: pf,
		Options:  opts,
		Inputs:   inputs,
		Dir:      dir,
		LogFile:  ws.LogFile(DirName(pf.Name, app.Name)),
	}
	makefile := NewMakefile(opts, cfg.RelBase, r.generator(), opts.ExtraDefs)

	p.add(&Step{
		Name:  StepClean,
		Title: "Creating " + app.Name + " build directory...",
		action: func(context.Context) error {
			_, err := layout.EnsureCleanBuildDirectory(pf.Name, app.Name)
			return err
		},
	})
	p.add(&Step{
		Name:  StepMakefile,
		Title: "Writing Makefile to " + layout.MakefilePath(pf.Name, app.Name),
		action: func(context.Context) error {
			return WriteMakefile(layout.MakefilePath(pf.Name, app.Name), makefile)
		},
	})
	bsp := &Step{Name: StepBSP, Title: "Building " + pf.Name + " BSP..."}
	if pf.HasBSP {
		bsp.Cmd = cmdRef(gmake.Build(ws.Path(cfg.BSPDir(pf.Name))))
	} else {
		bsp.Skip = "No BSP necessary"
	}
	p.add(bsp)
	if app.TraceInputs {
		tgppDir := ws.Path(cfg.TgppDir)
		p.add(&Step{
			Name:  StepTgpp,
			Title: "Building trace generator preprocessor...",
			Cmd:   cmdRef(tgpp.Build(tgppDir)),
		})
		p.add(&Step{
			Name:  StepTrace,
			Title: "Creating input data for " + app.Name + "...",
			Cmd:   cmdRef(tgpp.Generate(tgppDir, filepath.Join(dir, tgpp.OutputFile), inputs.CarData, inputs.Cycle)),
		})
	}
	p.add(&Step{
		Name:  StepBuild,
		Title: "Building " + app.Name + "...",
		Cmd:   cmdRef(gmake.Build(dir)),
	})
	var uploadArgs []string
	if opts.Upload() {
		uploadArgs = strings.Fields(*opts.UploadOptions)
	}
	p.add(uploadStep(dir, opts, uploadArgs))
	return p, nil
}

// PlanUpload creates a plan only uploading the existing build of app.
// args are passed to the upload rule as they are. The output is appended
// to the build log.
func (r *Runner) PlanUpload(app App, platform string, args []string, verbose bool) (*Plan, error) {
	ws := r.Workspace
	pf, err := ws.Config.Registry.Lookup(platform)
	if err != nil {
		return nil, err
	}
	layout := ws.Layout()
	dir := layout.ResolvePath(pf.Name, app.Name)
	if _, err := os.Stat(layout.MakefilePath(pf.Name, app.Name)); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("no build of %s in %s, build it first", app.Name, dir)}
	}
	uploadOpts := shell.JoinArgs(args)
	opts := BuildOptions{
		Platform:      pf.Name,
		App:           app.Name,
		UploadOptions: &uploadOpts,
		Verbose:       verbose,
	}
	p := &Plan{
		App:       app,
		Platform:  pf,
		Options:   opts,
		Dir:       dir,
		LogFile:   ws.LogFile(DirName(pf.Name, app.Name)),
		AppendLog: true,
	}
	p.add(uploadStep(dir, opts, args))
	return p, nil
}

func uploadStep(dir string, opts BuildOptions, args []string) *Step {
	step := &Step{Name: StepUpload}
	if opts.Upload() {
		step.Title = fmt.Sprintf("Uploading using options %q", *opts.UploadOptions)
		step.Cmd = cmdRef(gmake.Upload(dir, args...))
	} else {
		step.Skip = "No upload"
	}
	return step
}

// Execute runs the steps of p in order.
// The output of external commands is written to p.LogFile, and also to the
// terminal in verbose mode.
func (r *Runner) Execute(ctx context.Context, p *Plan) (err error) {
	logFile, err := openLogFile(p.LogFile, p.AppendLog)
	if err != nil {
		return err
	}
	defer logFile.Close()
	out := &lockedWriter{w: logFile}
	logger := log.New(out, "", log.LstdFlags)
	stdout, stderr := io.Writer(out), io.Writer(out)
	if p.Options.Verbose {
		stdout = io.MultiWriter(r.stdout(), out)
		stderr = io.MultiWriter(r.stderr(), out)
	}

	r.notify(ctx, &RunStartEvent{runEventBase{plan: p}})
	defer func() {
		r.notify(ctx, &RunEndEvent{runEventBase: runEventBase{plan: p}, Err: err})
	}()
	for _, step := range p.Steps {
		if step.Skipped() {
			step.done = true
			r.notify(ctx, &StepCompleteEvent{runEventBase: runEventBase{plan: p}, Step: step})
			continue
		}
		r.notify(ctx, &StepStartEvent{runEventBase: runEventBase{plan: p}, Step: step})
		step.StartTime = time.Now()
		step.Err = r.runStep(ctx, step, logger, stdout, stderr)
		step.EndTime = time.Now()
		step.done = true
		r.notify(ctx, &StepCompleteEvent{runEventBase: runEventBase{plan: p}, Step: step})
		if step.Err != nil {
			return step.Err
		}
	}
	return nil
}

// Run plans and executes the build of app.
func (r *Runner) Run(ctx context.Context, app App, opts BuildOptions, inputs *TraceInputs) (*Plan, error) {
	p, err := r.Plan(app, opts, inputs)
	if err != nil {
		return nil, err
	}
	return p, r.Execute(ctx, p)
}

func (r *Runner) runStep(ctx context.Context, step *Step, logger *log.Logger, stdout, stderr io.Writer) error {
	if step.Cmd == nil {
		logger.Printf("STEP %s", step.Name)
		if err := step.action(ctx); err != nil {
			logger.Printf("STEP ERROR %s: %v", step.Name, err)
			return err
		}
		return nil
	}
	cmd := step.Cmd.On(r.Target).In(r.Workspace.RootDir).Capture(stdout, stderr)
	logger.Printf("CMD START %v", cmd)
	if err := cmd.Run(ctx); err != nil {
		logger.Printf("CMD ERROR %v: %v", cmd, err)
		code, ok := shell.ExitCode(err)
		if !ok {
			code = -1
		}
		return &ExternalProcessError{Step: step.Name, Command: fmt.Sprint(cmd), Code: code, Err: err}
	}
	logger.Printf("CMD END %v", cmd)
	return nil
}

func (r *Runner) notify(ctx context.Context, event RunEvent) {
	if r.EventHandler != nil {
		r.EventHandler.HandleEvent(ctx, event)
	}
}

func (r *Runner) generator() string {
	if r.Generator != "" {
		return r.Generator
	}
	return DefaultGenerator
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func openLogFile(fn string, appendLog bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return nil, &FilesystemError{Op: "mkdir", Path: filepath.Dir(fn), Err: err}
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendLog {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(fn, flags, 0644)
	if err != nil {
		return nil, &FilesystemError{Op: "open", Path: fn, Err: err}
	}
	return f, nil
}

func cmdRef(cmd shell.Cmd) *shell.Cmd {
	return &cmd
}

// lockedWriter serializes writes from the stdout and stderr copiers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
