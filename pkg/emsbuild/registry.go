package emsbuild

import (
	"fmt"

	"emsbench/pkg/emsbuild/meta"
)

// Platform describes an embedded platform.
type Platform struct {
	// Name of the platform.
	Name string
	// HasBSP is set if the platform has an additional board support package.
	HasBSP bool
}

// Registry holds the supported platforms and speeds.
// It is immutable once created.
type Registry struct {
	platforms    []Platform
	byName       map[string]int
	speeds       []string
	defaultSpeed string
}

// NewRegistry creates a Registry.
// It fails on empty or duplicated platform names and on a default speed
// not present in speeds.
func NewRegistry(platforms []Platform, speeds []string, defaultSpeed string) (*Registry, error) {
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no platform defined")
	}
	if len(speeds) == 0 {
		return nil, fmt.Errorf("no speed defined")
	}
	r := &Registry{
		platforms:    append([]Platform(nil), platforms...),
		byName:       make(map[string]int, len(platforms)),
		speeds:       append([]string(nil), speeds...),
		defaultSpeed: defaultSpeed,
	}
	for n, pf := range r.platforms {
		if pf.Name == "" {
			return nil, fmt.Errorf("platform #%d has no name", n)
		}
		if _, ok := r.byName[pf.Name]; ok {
			return nil, fmt.Errorf("conflict platform name %q", pf.Name)
		}
		r.byName[pf.Name] = n
	}
	if !r.ValidSpeed(defaultSpeed) {
		return nil, fmt.Errorf("default speed %q is not one of %v", defaultSpeed, speeds)
	}
	return r, nil
}

// NewRegistryFromMeta creates a Registry from root metadata.
func NewRegistryFromMeta(root meta.Root) (*Registry, error) {
	root = root.WithDefaults()
	platforms := make([]Platform, 0, len(root.Platforms))
	for _, pf := range root.Platforms {
		platforms = append(platforms, Platform{Name: pf.Name, HasBSP: pf.BSP})
	}
	return NewRegistry(platforms, root.Speeds, root.DefaultSpeed)
}

// Lookup finds a platform by name.
func (r *Registry) Lookup(name string) (Platform, error) {
	n, ok := r.byName[name]
	if !ok {
		return Platform{}, &UnknownPlatformError{Name: name, Known: r.Names()}
	}
	return r.platforms[n], nil
}

// Platforms returns the platforms in declaration order.
func (r *Registry) Platforms() []Platform {
	return append([]Platform(nil), r.platforms...)
}

// Names returns the platform names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.platforms))
	for n, pf := range r.platforms {
		names[n] = pf.Name
	}
	return names
}

// Speeds returns the valid speeds.
func (r *Registry) Speeds() []string {
	return append([]string(nil), r.speeds...)
}

// DefaultSpeed returns the speed used when none is selected.
func (r *Registry) DefaultSpeed() string {
	return r.defaultSpeed
}

// ValidSpeed checks if speed is declared.
func (r *Registry) ValidSpeed(speed string) bool {
	for _, s := range r.speeds {
		if s == speed {
			return true
		}
	}
	return false
}
