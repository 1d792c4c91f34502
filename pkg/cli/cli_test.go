package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emsbench/pkg/emsbuild"
	"emsbench/pkg/shell"
)

type exitStatus int

func (s exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(s)) }
func (s exitStatus) ExitCode() int { return int(s) }

type fakeTarget struct {
	argvs [][]string
	fail  string
	code  int
}

type fakeProcess struct {
	err error
}

func (t *fakeTarget) Start(cmd shell.Cmd) (shell.Process, error) {
	t.argvs = append(t.argvs, cmd.Argv())
	if t.fail != "" && strings.Contains(fmt.Sprint(cmd), t.fail) {
		return &fakeProcess{err: exitStatus(t.code)}, nil
	}
	return &fakeProcess{}, nil
}

func (p *fakeProcess) Wait(ctx context.Context) error {
	return p.err
}

type testEnv struct {
	builder ContextBuilder
	target  *fakeTarget
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{target: &fakeTarget{}}
	env.builder = ContextBuilder{
		WorkDir: t.TempDir(),
		TextUI:  true,
		Target:  env.target,
		Stdout:  &env.stdout,
		Stderr:  &env.stderr,
	}
	return env
}

func (e *testEnv) run(cmd Command, args ...string) error {
	return e.builder.BuildAndRun(context.Background(), cmd, args...)
}

func TestBuildCmdEms(t *testing.T) {
	env := newTestEnv(t)
	cmd := &BuildCmd{App: "ems", Options: emsbuild.BuildOptions{Platform: "nios2", Logging: true}}
	require.NoError(t, env.run(cmd))

	out := env.stdout.String()
	assert.Contains(t, out, "Building ems for platform nios2\nNo upload\nBuilding with data logging\n")
	assert.Contains(t, out, "[0/5] START clean: Creating ems build directory...\n")
	assert.Contains(t, out, "[1/5] DONE clean\n")
	assert.Contains(t, out, "[5/5] SKIPPED upload: No upload\n")
	assert.Contains(t, out, "BUILD END succeeded=4 skipped=1 failed=0\n")
	assert.Empty(t, env.stderr.String())
	assert.Len(t, env.target.argvs, 2)
}

func TestBuildCmdTraceGenerator(t *testing.T) {
	env := newTestEnv(t)
	workDir := env.builder.WorkDir
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "car.dat"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "nedc.dat"), nil, 0644))
	cmd := &BuildCmd{
		App:     "tg",
		Options: emsbuild.BuildOptions{Platform: "default"},
		CarData: "car.dat",
		Cycle:   "nedc.dat",
	}
	require.NoError(t, cmd.Upload.Set(" PORT=/dev/ttyACM0 "))
	require.NoError(t, env.run(cmd))

	out := env.stdout.String()
	assert.Contains(t, out, "Upload using options 'PORT=/dev/ttyACM0'\n")
	assert.Contains(t, out, "Using car data from "+filepath.Join(workDir, "car.dat")+"\n")
	assert.Contains(t, out, "SKIPPED bsp: No BSP necessary\n")
	require.Len(t, env.target.argvs, 4)
	assert.Equal(t, filepath.Join(workDir, "nedc.dat"), env.target.argvs[1][4])
	assert.Equal(t, "PORT=/dev/ttyACM0", env.target.argvs[3][4])
}

func TestBuildCmdFailure(t *testing.T) {
	env := newTestEnv(t)
	env.target.fail, env.target.code = "bsp", 5
	cmd := &BuildCmd{App: "ems", Options: emsbuild.BuildOptions{Platform: "stm32f4-discovery"}}
	err := env.run(cmd)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 5, exitErr.Code)

	logFile := filepath.Join(env.builder.WorkDir, ".emsbench", "log", "stm32f4-discovery-ems.out")
	assert.Contains(t, env.stdout.String(), "FAILED bsp: step bsp: make -C ")
	assert.Contains(t, env.stdout.String(), "    output in "+logFile+"\n")
	assert.Contains(t, env.stdout.String(), "BUILD END succeeded=2 skipped=0 failed=1\n")
	assert.True(t, strings.HasPrefix(env.stderr.String(), "Error: step bsp: "))
	assert.FileExists(t, logFile)
}

func TestBuildCmdValidation(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(&BuildCmd{App: "ems", Options: emsbuild.BuildOptions{Platform: "nonexistent-platform"}})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, emsbuild.ExitUsage, exitErr.Code)
	assert.Contains(t, env.stderr.String(), `Error: unknown platform "nonexistent-platform"`)

	env.stderr.Reset()
	err = env.run(&BuildCmd{App: "ems"})
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, emsbuild.ExitUsage, exitErr.Code)
	assert.Contains(t, env.stderr.String(), "missing platform")

	err = env.run(&BuildCmd{App: "tg", Options: emsbuild.BuildOptions{Platform: "default"}, CarData: "car.dat", Cycle: "nedc.dat"})
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, emsbuild.ExitUsage, exitErr.Code)
	assert.Empty(t, env.target.argvs)
	assert.NoDirExists(t, filepath.Join(env.builder.WorkDir, "embedded"))
}

func TestUploadCmd(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(&UploadCmd{Platform: "nios2"}, "ems")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, emsbuild.ExitUsage, exitErr.Code)

	require.NoError(t, env.run(&BuildCmd{App: "ems", Options: emsbuild.BuildOptions{Platform: "nios2"}}))
	require.NoError(t, env.run(&UploadCmd{Platform: "nios2"}, "ems", "PORT=x", "-j1"))
	last := env.target.argvs[len(env.target.argvs)-1]
	assert.Equal(t, []string{"upload", "-C"}, last[1:3])
	assert.Equal(t, []string{"PORT=x", "-j1"}, last[4:])
}

func TestPathCmd(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(env.builder.WorkDir, "embedded", "build", "nios2-tg")
	require.NoError(t, env.run(&PathCmd{Platform: "nios2", Tree: true}, "tg"))
	assert.Equal(t, dir+"\n", env.stdout.String())
	assert.NoDirExists(t, dir)

	_, err := emsbuild.Layout{Root: filepath.Dir(dir)}.EnsureCleanBuildDirectory("nios2", "tg")
	require.NoError(t, err)
	env.stdout.Reset()
	require.NoError(t, env.run(&PathCmd{Platform: "nios2", Tree: true}, "tg"))
	out := env.stdout.String()
	assert.True(t, strings.HasPrefix(out, dir+"\nnios2-tg\n"))
	assert.Contains(t, out, "hal-tg")
	assert.Contains(t, out, "└── tg")

	assert.Error(t, env.run(&PathCmd{Platform: "nios2"}, "bootloader"))
}

func TestListCmds(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(&ListPlatformsCmd{}))
	assert.Equal(t, "default\nstm32f4-discovery bsp\nnios2 bsp\n", env.stdout.String())

	layout := emsbuild.Layout{Root: filepath.Join(env.builder.WorkDir, "embedded", "build")}
	for _, pf := range []string{"nios2", "default"} {
		_, err := layout.EnsureCleanBuildDirectory(pf, "ems")
		require.NoError(t, err)
	}
	env.stdout.Reset()
	require.NoError(t, env.run(&ListBuildsCmd{}, "nios2-*"))
	assert.Equal(t, "nios2-ems "+layout.ResolvePath("nios2", "ems")+"\n", env.stdout.String())

	env.stdout.Reset()
	require.NoError(t, env.run(&CleanCmd{}, "default-*"))
	assert.Equal(t, "Removed "+layout.ResolvePath("default", "ems")+"\n", env.stdout.String())
	assert.NoDirExists(t, layout.ResolvePath("default", "ems"))
	assert.DirExists(t, layout.ResolvePath("nios2", "ems"))
}

func TestCheckCmd(t *testing.T) {
	env := newTestEnv(t)
	err := env.run(&CheckCmd{})
	require.Error(t, err)
	assert.Equal(t, 7, strings.Count(env.stdout.String(), "PROBLEM "))
}

func TestLogCmd(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.run(&LogCmd{Platform: "nios2"}, "ems"))

	require.NoError(t, env.run(&BuildCmd{App: "ems", Options: emsbuild.BuildOptions{Platform: "nios2"}}))
	env.stdout.Reset()
	require.NoError(t, env.run(&LogCmd{Platform: "nios2"}, "ems"))
	assert.Contains(t, env.stdout.String(), "CMD START make -C ")
}

func TestUploadFlag(t *testing.T) {
	parse := func(args ...string) *string {
		var f UploadFlag
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		f.Bind(fs, "upload", "u", "")
		require.NoError(t, fs.Parse(args))
		return f.Options()
	}
	assert.Nil(t, parse())
	opts := parse("-u")
	require.NotNil(t, opts)
	assert.Empty(t, *opts)
	opts = parse("--upload=PORT=/dev/ttyUSB0 -j1")
	require.NotNil(t, opts)
	assert.Equal(t, "PORT=/dev/ttyUSB0 -j1", *opts)
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTree(&buf, "/build/nios2-ems", []string{"Makefile", "ems/", "ems/main.o", "hal/"}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "nios2-ems\n"))
	assert.Contains(t, out, "├── Makefile")
	assert.Contains(t, out, "main.o")
	assert.Contains(t, out, "└── hal")
}
