package emsbuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/zabawaba99/go-gitignore"

	"emsbench/pkg/emsbuild/meta"
)

const logFolderName = "log"

// Workspace is an EMSBench source tree.
type Workspace struct {
	// RootDir is the absolute path to the root of the workspace.
	RootDir string
	// WorkDir is the absolute path of the working directory (may be different from PWD).
	WorkDir string
	// RootFile is the loaded root metadata file, empty if defaults are used.
	RootFile string
	// Config is loaded once and never modified.
	Config *Config
}

// Build is an existing build directory.
type Build struct {
	// Name is the directory name, <platform>-<app>.
	Name string
	// Platform is empty if the name doesn't start with a known platform.
	Platform string
	App      string
	Dir      string
}

// NewWorkspace creates a Workspace from the specified directory as working directory.
// If workDir is empty, the current working directory is used.
func NewWorkspace(workDir string) (*Workspace, error) {
	var err error
	if workDir == "" {
		workDir, err = os.Getwd()
	} else {
		workDir, err = filepath.Abs(workDir)
	}
	if err != nil {
		return nil, err
	}
	w := &Workspace{WorkDir: workDir}
	if err := w.LocateRoot(); err != nil {
		return nil, err
	}
	return w, nil
}

// LocateRoot finds the root of the workspace from the working directory:
// the closest ancestor containing meta.RootFile. Without such a file, the
// working directory is the root and the compiled-in configuration is used.
func (w *Workspace) LocateRoot() error {
	wd := w.WorkDir
	for {
		m, err := meta.LoadRootFromDir(wd)
		if err == nil {
			cfg, err := NewConfig(*m)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Join(wd, meta.RootFile), err)
			}
			w.RootDir, w.RootFile, w.Config = wd, filepath.Join(wd, meta.RootFile), cfg
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("check %s error: %w", filepath.Join(wd, meta.RootFile), err)
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	w.RootDir, w.RootFile, w.Config = w.WorkDir, "", DefaultConfig()
	return nil
}

// Path returns the absolute path of rel under the root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.RootDir, rel)
}

// Layout returns the path allocator of the build root.
func (w *Workspace) Layout() Layout {
	return Layout{Root: w.Path(w.Config.BuildDir)}
}

// LogDir returns the directory for build logs.
func (w *Workspace) LogDir() string {
	return filepath.Join(w.Path(w.Config.DataDir), logFolderName)
}

// LogFile returns the build log of the build directory name.
func (w *Workspace) LogFile(name string) string {
	return filepath.Join(w.LogDir(), name+".out")
}

// ListBuilds returns the existing build directories sorted by name.
// If patterns are specified, only names matching any of them (gitignore
// syntax) are returned.
func (w *Workspace) ListBuilds(patterns ...string) ([]Build, error) {
	root := w.Layout().Root
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	dirents, err := godirwalk.ReadDirents(root, nil)
	if err != nil {
		return nil, &FilesystemError{Op: "list", Path: root, Err: err}
	}
	var builds []Build
	for _, dirent := range dirents {
		name := dirent.Name()
		if !dirent.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if len(patterns) > 0 && !matchAny(patterns, name) {
			continue
		}
		build := Build{Name: name, Dir: filepath.Join(root, name)}
		build.Platform, build.App = w.splitBuildName(name)
		builds = append(builds, build)
	}
	sort.Slice(builds, func(i, j int) bool {
		return builds[i].Name < builds[j].Name
	})
	return builds, nil
}

// RemoveBuild removes a build directory and its log.
func (w *Workspace) RemoveBuild(build Build) error {
	if err := os.RemoveAll(build.Dir); err != nil {
		return &FilesystemError{Op: "remove", Path: build.Dir, Err: err}
	}
	logFn := w.LogFile(build.Name)
	if err := os.Remove(logFn); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &FilesystemError{Op: "remove", Path: logFn, Err: err}
	}
	return nil
}

// Check verifies the files the external build system relies on exist.
// All problems are returned.
func (w *Workspace) Check() []error {
	var errs []error
	expect := func(rel string, dir bool, what string) {
		fn := w.Path(rel)
		info, err := os.Stat(fn)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s %q: %w", what, rel, err))
		case info.IsDir() != dir:
			errs = append(errs, fmt.Errorf("%s %q: unexpected file type", what, rel))
		}
	}
	expect(filepath.Join(w.Config.EmbeddedDir(), "conf", "build.mk"), false, "base build rules")
	for _, pf := range w.Config.Registry.Platforms() {
		expect(filepath.Join(w.Config.ArchDir, pf.Name), true, "platform "+pf.Name)
		if pf.HasBSP {
			expect(w.Config.BSPDir(pf.Name), true, "BSP of "+pf.Name)
		}
	}
	expect(w.Config.TgppDir, true, "trace generator preprocessor")
	return errs
}

// splitBuildName finds the longest platform name which is a prefix of name.
func (w *Workspace) splitBuildName(name string) (platform, app string) {
	for _, pf := range w.Config.Registry.Names() {
		prefix := pf + "-"
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) && len(pf) > len(platform) {
			platform, app = pf, name[len(prefix):]
		}
	}
	return platform, app
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if gitignore.Match(pattern, name) {
			return true
		}
	}
	return false
}
