package emsbuild

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
)

const makefileName = "Makefile"

var errNotDir = errors.New("not a directory")

// Layout allocates build directories under a build root.
type Layout struct {
	// Root is the build root, all build directories are direct children.
	Root string
}

// DirName returns the name of the build directory of platform and app.
func DirName(platform, app string) string {
	return platform + "-" + app
}

// ResolvePath returns the build directory of platform and app.
// It doesn't touch the filesystem.
func (l Layout) ResolvePath(platform, app string) string {
	return filepath.Join(l.Root, DirName(platform, app))
}

// MakefilePath returns the path of the generated Makefile.
func (l Layout) MakefilePath(platform, app string) string {
	return filepath.Join(l.ResolvePath(platform, app), makefileName)
}

// Subdirs returns the subdirectories required in the build directory of app.
func Subdirs(app string) []string {
	return []string{"hal", "hal-" + app, app}
}

// EnsureCleanBuildDirectory removes the build directory of platform and app
// with all its contents if present, and creates it again with the required
// subdirectories. It is not atomic: after a failure, the directory may be
// partially created, and running it again converges to the same layout.
func (l Layout) EnsureCleanBuildDirectory(platform, app string) (string, error) {
	path := l.ResolvePath(platform, app)
	if info, err := os.Lstat(path); err == nil {
		if !info.IsDir() {
			return path, &FilesystemError{Op: "remove", Path: path, Err: errNotDir}
		}
		if err := os.RemoveAll(path); err != nil {
			return path, &FilesystemError{Op: "remove", Path: path, Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, &FilesystemError{Op: "stat", Path: path, Err: err}
	}
	if err := os.MkdirAll(l.Root, 0755); err != nil {
		return path, &FilesystemError{Op: "mkdir", Path: l.Root, Err: err}
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return path, &FilesystemError{Op: "mkdir", Path: path, Err: err}
	}
	for _, sub := range Subdirs(app) {
		dir := filepath.Join(path, sub)
		if err := os.Mkdir(dir, 0755); err != nil {
			return path, &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return path, nil
}

// Listing returns the sorted slash-separated relative paths of all entries
// under dir. Directories carry a trailing slash.
func Listing(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	var entries []string
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, entry *godirwalk.Dirent) error {
			if path == dir {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if entry.IsDir() {
				rel += "/"
			}
			entries = append(entries, rel)
			return nil
		},
	})
	if err != nil {
		return nil, &FilesystemError{Op: "list", Path: dir, Err: err}
	}
	sort.Strings(entries)
	return entries, nil
}
