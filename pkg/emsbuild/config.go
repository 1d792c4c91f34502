package emsbuild

import (
	"path/filepath"

	"emsbench/pkg/emsbuild/meta"
)

// Config is the immutable configuration of a workspace.
// Relative paths are relative to the workspace root.
type Config struct {
	BuildDir string
	RelBase  string
	ArchDir  string
	TgppDir  string
	DataDir  string
	Registry *Registry
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	cfg, err := NewConfig(meta.Root{})
	if err != nil {
		// The compiled-in defaults are always valid.
		panic(err)
	}
	return cfg
}

// NewConfig creates Config from root metadata, filling in defaults.
func NewConfig(root meta.Root) (*Config, error) {
	root = root.WithDefaults()
	reg, err := NewRegistryFromMeta(root)
	if err != nil {
		return nil, err
	}
	return &Config{
		BuildDir: filepath.FromSlash(root.BuildDir),
		RelBase:  root.RelBase,
		ArchDir:  filepath.FromSlash(root.ArchDir),
		TgppDir:  filepath.FromSlash(root.TgppDir),
		DataDir:  filepath.FromSlash(root.DataDir),
		Registry: reg,
	}, nil
}

// EmbeddedDir returns the embedded directory relative to the workspace root,
// the directory BASE refers to from a build directory.
func (c *Config) EmbeddedDir() string {
	return filepath.Clean(filepath.Join(c.BuildDir, "x", filepath.FromSlash(c.RelBase)))
}

// BSPDir returns the board support package directory of platform.
func (c *Config) BSPDir(platform string) string {
	return filepath.Join(c.ArchDir, platform, "bsp")
}
