package emsbuild

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emsbench/pkg/emsbuild/meta"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultConfig().Registry
	assert.Equal(t, []string{"default", "stm32f4-discovery", "nios2"}, reg.Names())
	assert.Equal(t, []string{"slow", "fast"}, reg.Speeds())
	assert.Equal(t, "fast", reg.DefaultSpeed())

	pf, err := reg.Lookup("nios2")
	require.NoError(t, err)
	assert.Equal(t, Platform{Name: "nios2", HasBSP: true}, pf)
	pf, err = reg.Lookup("default")
	require.NoError(t, err)
	assert.False(t, pf.HasBSP)
}

func TestRegistryLookupUnknown(t *testing.T) {
	reg := DefaultConfig().Registry
	_, err := reg.Lookup("nonexistent-platform")
	var pfErr *UnknownPlatformError
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "nonexistent-platform", pfErr.Name)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "stm32f4-discovery")
}

func TestRegistryIsImmutable(t *testing.T) {
	reg := DefaultConfig().Registry
	names := reg.Names()
	names[0] = "changed"
	platforms := reg.Platforms()
	platforms[0].Name = "changed"
	speeds := reg.Speeds()
	speeds[0] = "changed"
	assert.Equal(t, "default", reg.Names()[0])
	assert.Equal(t, "default", reg.Platforms()[0].Name)
	assert.Equal(t, "slow", reg.Speeds()[0])
}

func TestNewRegistryErrors(t *testing.T) {
	speeds := []string{"slow", "fast"}
	testCases := []struct {
		name      string
		platforms []Platform
		speeds    []string
		speed     string
	}{
		{"no platforms", nil, speeds, "fast"},
		{"empty name", []Platform{{Name: ""}}, speeds, "fast"},
		{"duplicated name", []Platform{{Name: "a"}, {Name: "a", HasBSP: true}}, speeds, "fast"},
		{"no speeds", []Platform{{Name: "a"}}, nil, "fast"},
		{"bad default speed", []Platform{{Name: "a"}}, speeds, "medium"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.platforms, tc.speeds, tc.speed)
			assert.Error(t, err)
		})
	}
}

func TestNewConfigOverrides(t *testing.T) {
	cfg, err := NewConfig(meta.Root{
		BuildDir:  "out",
		Platforms: []meta.Platform{{Name: "rpi", BSP: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.BuildDir)
	assert.Equal(t, "../..", cfg.RelBase)
	assert.Equal(t, []string{"rpi"}, cfg.Registry.Names())
	assert.Equal(t, "embedded/arch/rpi/bsp", filepath.ToSlash(cfg.BSPDir("rpi")))
	assert.Equal(t, ".", cfg.EmbeddedDir())

	_, err = NewConfig(meta.Root{DefaultSpeed: "warp"})
	assert.Error(t, err)
}
