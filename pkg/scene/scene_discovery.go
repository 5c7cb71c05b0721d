package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Create for names without a builder
var ErrUnknownScene = errors.New("unknown scene")

// Builder constructs a built-in scene with the given constants
type Builder func(config Config) (*Scene, error)

var builders = map[string]Builder{
	"cornell":       NewCornellScene,
	"cornell-empty": NewEmptyCornellScene,
	"spheres":       NewSpheresScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named scene. Names ending in .ply are loaded as a
// mesh placed in the empty Cornell box.
func Create(name string, config Config) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".ply") {
		s, err := NewMeshScene(name, config)
		if err != nil {
			return nil, fmt.Errorf("loading scene %q: %w", name, err)
		}
		return s, nil
	}

	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	s, err := build(config)
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", name, err)
	}
	return s, nil
}
