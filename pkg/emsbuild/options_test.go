package emsbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() BuildOptions {
	return BuildOptions{Platform: "stm32f4-discovery", App: "ems", Speed: "slow"}
}

func TestValidate(t *testing.T) {
	reg := DefaultConfig().Registry
	require.NoError(t, Validate(reg, validOptions()))

	testCases := []struct {
		name   string
		modify func(*BuildOptions)
		reason string
	}{
		{"unknown platform", func(o *BuildOptions) { o.Platform = "avr" }, `unknown platform "avr"`},
		{"missing app", func(o *BuildOptions) { o.App = "" }, "App: missing value"},
		{"bad app", func(o *BuildOptions) { o.App = "ems app" }, `invalid name "ems app"`},
		{"bad speed", func(o *BuildOptions) { o.Speed = "medium" }, `invalid speed "medium", choose from slow, fast`},
		{"multi-line def", func(o *BuildOptions) { o.ExtraDefs = []string{"A = 1", "B = 2\nC = 3"} }, "spans multiple lines"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := validOptions()
			tc.modify(&opts)
			err := Validate(reg, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.reason)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}

func TestValidateInputs(t *testing.T) {
	dir := t.TempDir()
	car := filepath.Join(dir, "car.dat")
	cycle := filepath.Join(dir, "cycle.dat")
	require.NoError(t, os.WriteFile(car, []byte("car"), 0644))
	require.NoError(t, os.WriteFile(cycle, []byte("cycle"), 0644))

	require.NoError(t, ValidateInputs(TraceInputs{CarData: car, Cycle: cycle}))

	missing := filepath.Join(dir, "missing.dat")
	err := ValidateInputs(TraceInputs{CarData: missing, Cycle: cycle})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "car data file does not exist: "+missing)

	err = ValidateInputs(TraceInputs{CarData: car})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "driving cycle file: missing value")
}

func TestUploadOptions(t *testing.T) {
	opts := validOptions()
	assert.False(t, opts.Upload())
	empty := ""
	opts.UploadOptions = &empty
	assert.True(t, opts.Upload())
}

func TestApps(t *testing.T) {
	app, err := LookupApp("tg")
	require.NoError(t, err)
	assert.True(t, app.TraceInputs)
	assert.False(t, app.PerformanceLogging)
	assert.Equal(t, []string{"SUPP_C_SRC = trace.c"}, app.ExtraDefs)

	app.ExtraDefs[0] = "changed"
	again, err := LookupApp("tg")
	require.NoError(t, err)
	assert.Equal(t, "SUPP_C_SRC = trace.c", again.ExtraDefs[0])

	_, err = LookupApp("bootloader")
	assert.ErrorIs(t, err, ErrUnknownApp)
	assert.Equal(t, ExitUsage, ExitCode(err))
}
