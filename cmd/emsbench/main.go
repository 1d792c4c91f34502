package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"emsbench/pkg/cli"
	"emsbench/pkg/emsbuild"
)

const (
	emsLong = `Build the engine management system for a platform.` + buildNotes

	buildNotes = `

The build directory is recreated from scratch and all previous data in it is
removed. Unless -v is given, the output of make goes to the build log, see
"emsbench log".

Upload options must be attached to the flag, as in -u=PORT=/dev/ttyUSB0 or
--upload="PORT=/dev/ttyUSB0 BAUD=115200". A separate word after -u is not an
upload option. The options are split on whitespace.

When building with -L or -D, use only the slow speed (-S slow) for both ems
and tg. The behaviour may still differ from a build without logging.`

	tgLong = `Build the trace generator for a platform.

The trace generator replays a driving cycle computed from the car data file
and the driving cycle file. Both are converted to C source by the trace
generator preprocessor before building.` + buildNotes

	uploadLong = `Upload an existing build to the target.

Flags must come before APP. Arguments after APP are passed to "make upload"
as they are, including arguments starting with a dash.`

	buildsLong = `List existing build directories.

PATTERNs use gitignore syntax and are matched against directory names like
"stm32f4-discovery-ems".`
)

var contextBuilder cli.ContextBuilder

func runCmd(cmd cli.Command) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		return contextBuilder.BuildAndRun(c.Context(), cmd, args...)
	}
}

func buildFlags(c *cobra.Command, cmd *cli.BuildCmd) {
	fs := c.Flags()
	fs.StringVarP(&cmd.Options.Platform, "platform", "p", "", "Target platform, see \"emsbench platforms\".")
	cmd.Upload.Bind(fs, "upload", "u", "Upload after building, optionally with options for make upload.")
	fs.BoolVarP(&cmd.Options.Logging, "logging", "L", false, "Enable data logging.")
	fs.BoolVarP(&cmd.Options.DebugOutput, "debug", "D", false, "Enable debug output.")
	fs.StringVarP(&cmd.Options.Speed, "speed", "S", "", "Execution speed, use slow for logging or debug output (default from EMSBENCH.yaml).")
	fs.StringArrayVar(&cmd.Options.ExtraDefs, "def", nil, "Extra Makefile line, may be repeated.")
	fs.BoolVarP(&cmd.Options.Verbose, "verbose", "v", false, "Show output of external tools.")
}

func newEmsCmd() *cobra.Command {
	cmd := &cli.BuildCmd{App: "ems"}
	c := &cobra.Command{
		Use:   "ems -p PLATFORM [flags]",
		Short: "Build the engine management system",
		Long:  emsLong,
		Args:  cobra.NoArgs,
		RunE:  runCmd(cmd),
	}
	buildFlags(c, cmd)
	c.Flags().BoolVarP(&cmd.Options.PerformanceLogging, "perf", "P", false, "Enable performance logging.")
	return c
}

func newTgCmd() *cobra.Command {
	cmd := &cli.BuildCmd{App: "tg"}
	c := &cobra.Command{
		Use:   "tg -p PLATFORM -c CARDATA -d CYCLE [flags]",
		Short: "Build the trace generator",
		Long:  tgLong,
		Args:  cobra.NoArgs,
		RunE:  runCmd(cmd),
	}
	buildFlags(c, cmd)
	c.Flags().StringVarP(&cmd.CarData, "car", "c", "", "Car data file.")
	c.Flags().StringVarP(&cmd.Cycle, "cycle", "d", "", "Driving cycle file.")
	return c
}

func newUploadCmd() *cobra.Command {
	cmd := &cli.UploadCmd{}
	c := &cobra.Command{
		Use:   "upload -p PLATFORM APP [OPTS...]",
		Short: "Upload an existing build",
		Long:  uploadLong,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCmd(cmd),
	}
	c.Flags().StringVarP(&cmd.Platform, "platform", "p", "", "Target platform.")
	c.Flags().BoolVarP(&cmd.Verbose, "verbose", "v", false, "Show output of external tools.")
	c.Flags().SetInterspersed(false)
	return c
}

func newPathCmd() *cobra.Command {
	cmd := &cli.PathCmd{}
	c := &cobra.Command{
		Use:   "path -p PLATFORM APP",
		Short: "Print the build directory of an application",
		Args:  cobra.ExactArgs(1),
		RunE:  runCmd(cmd),
	}
	c.Flags().StringVarP(&cmd.Platform, "platform", "p", "", "Target platform.")
	c.Flags().BoolVarP(&cmd.Tree, "tree", "t", false, "Also print the content of the directory.")
	return c
}

func newLogCmd() *cobra.Command {
	cmd := &cli.LogCmd{}
	c := &cobra.Command{
		Use:   "log -p PLATFORM APP",
		Short: "Print the output of the last build",
		Args:  cobra.ExactArgs(1),
		RunE:  runCmd(cmd),
	}
	c.Flags().StringVarP(&cmd.Platform, "platform", "p", "", "Target platform.")
	return c
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "emsbench",
		Short:         "Build EmbeddedBench applications",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	pfs := root.PersistentFlags()
	pfs.StringVarP(&contextBuilder.WorkDir, "chdir", "C", "", "Working directory.")
	pfs.BoolVar(&contextBuilder.TextUI, "no-color", contextBuilder.TextUI, "Disable color terminal support.")

	root.AddCommand(
		newEmsCmd(),
		newTgCmd(),
		newUploadCmd(),
		&cobra.Command{
			Use:     "platforms",
			Aliases: []string{"pf"},
			Short:   "List supported platforms",
			Args:    cobra.NoArgs,
			RunE:    runCmd(&cli.ListPlatformsCmd{}),
		},
		&cobra.Command{
			Use:   "builds [PATTERN...]",
			Short: "List existing build directories",
			Long:  buildsLong,
			RunE:  runCmd(&cli.ListBuildsCmd{}),
		},
		newPathCmd(),
		&cobra.Command{
			Use:   "check",
			Short: "Check the workspace",
			Args:  cobra.NoArgs,
			RunE:  runCmd(&cli.CheckCmd{}),
		},
		newLogCmd(),
		&cobra.Command{
			Use:   "clean [PATTERN...]",
			Short: "Remove build directories",
			RunE:  runCmd(&cli.CleanCmd{}),
		},
	)
	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		<-sigCh
		os.Exit(emsbuild.ExitFailure)
	}()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	// Flag and argument errors from cobra.
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(emsbuild.ExitUsage)
}
