package meta

const (
	// RootFile defines the Root metadata file name.
	RootFile = "EMSBENCH.yaml"

	// DefaultBuildDir is the default build root relative to the workspace root.
	DefaultBuildDir = "embedded/build"
	// DefaultRelBase is how to reach the embedded directory from a build
	// directory (embedded/build/<platform>-<app>).
	DefaultRelBase = "../.."
	// DefaultArchDir is the directory containing per-platform sources.
	DefaultArchDir = "embedded/arch"
	// DefaultTgppDir is the directory of the trace generator preprocessor.
	DefaultTgppDir = "tgpp"
	// DefaultDataDir is the default directory name for logs and internal states.
	DefaultDataDir = ".emsbench"
	// DefaultSpeed is used when no speed is selected.
	DefaultSpeed = "fast"
)

// DefaultSpeeds lists the execution speeds known by the build rules.
var DefaultSpeeds = []string{"slow", "fast"}

// DefaultPlatforms is the compiled-in platform list.
var DefaultPlatforms = []Platform{
	{Name: "default"}, // Host machine, use only for tg.
	{Name: "stm32f4-discovery", BSP: true},
	{Name: "nios2", BSP: true},
}

// Root defines the metadata at the root of an EMSBench workspace.
// This is the schema of RootFile. Empty fields fall back to the defaults.
type Root struct {
	// BuildDir specifies the relative path of the build root.
	BuildDir string `json:"build-dir,omitempty"`
	// RelBase specifies the relative path from a build directory to the
	// embedded directory, written as BASE into generated Makefiles.
	RelBase string `json:"rel-base,omitempty"`
	// ArchDir specifies the relative path of per-platform sources.
	ArchDir string `json:"arch-dir,omitempty"`
	// TgppDir specifies the relative path of the trace generator preprocessor.
	TgppDir string `json:"tgpp-dir,omitempty"`
	// DataDir specifies the relative path to store logs.
	DataDir string `json:"data-dir,omitempty"`
	// Speeds lists the valid execution speeds.
	Speeds []string `json:"speeds,omitempty"`
	// DefaultSpeed is the speed used when none is selected.
	DefaultSpeed string `json:"default-speed,omitempty"`
	// Platforms replaces the compiled-in platform list when present.
	Platforms []Platform `json:"platforms,omitempty"`
}

// Platform is the schema of a single platform entry.
type Platform struct {
	// Name of the platform, also the directory name under ArchDir.
	Name string `json:"name"`
	// BSP indicates the platform has an additional board support package.
	BSP bool `json:"bsp,omitempty"`
}

// WithDefaults returns a copy of r with empty fields filled by defaults.
func (r Root) WithDefaults() Root {
	if r.BuildDir == "" {
		r.BuildDir = DefaultBuildDir
	}
	if r.RelBase == "" {
		r.RelBase = DefaultRelBase
	}
	if r.ArchDir == "" {
		r.ArchDir = DefaultArchDir
	}
	if r.TgppDir == "" {
		r.TgppDir = DefaultTgppDir
	}
	if r.DataDir == "" {
		r.DataDir = DefaultDataDir
	}
	if len(r.Speeds) == 0 {
		r.Speeds = append([]string(nil), DefaultSpeeds...)
	}
	if r.DefaultSpeed == "" {
		r.DefaultSpeed = DefaultSpeed
	}
	if len(r.Platforms) == 0 {
		r.Platforms = append([]Platform(nil), DefaultPlatforms...)
	}
	return r
}
