package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRootFromDir(t *testing.T) {
	dir := t.TempDir()
	content := "build-dir: out\nplatforms:\n  - name: rpi\n    bsp: true\n  - name: host\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, RootFile), []byte(content), 0644))

	root, err := LoadRootFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "out", root.BuildDir)
	assert.Equal(t, []Platform{{Name: "rpi", BSP: true}, {Name: "host"}}, root.Platforms)
	assert.Empty(t, root.RelBase)

	full := root.WithDefaults()
	assert.Equal(t, "out", full.BuildDir)
	assert.Equal(t, DefaultRelBase, full.RelBase)
	assert.Equal(t, DefaultSpeeds, full.Speeds)
	assert.Equal(t, root.Platforms, full.Platforms)
}

func TestLoadRootFileMissing(t *testing.T) {
	_, err := LoadRootFromDir(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	root := Root{}.WithDefaults()
	assert.Equal(t, DefaultBuildDir, root.BuildDir)
	assert.Equal(t, DefaultDataDir, root.DataDir)
	assert.Equal(t, DefaultSpeed, root.DefaultSpeed)
	assert.Equal(t, DefaultPlatforms, root.Platforms)

	root.Platforms[0].Name = "changed"
	assert.Equal(t, "default", DefaultPlatforms[0].Name)
}
