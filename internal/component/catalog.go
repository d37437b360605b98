package component

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StartFunc runs a component's initialization. Settings applied to the Env
// store are visible before it is called.
type StartFunc func(ctx context.Context, env *Env) error

// Definition describes one loadable component: its identity, its declared
// dependencies and an optional start hook.
type Definition struct {
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version"`
	Requires []string `yaml:"requires"`

	Start StartFunc `yaml:"-"`
}

// Catalog resolves component names to definitions. Lookups for unknown
// components fail; the sequencer records such failures as load failures.
type Catalog interface {
	Lookup(name string) (*Definition, error)
}

// DirCatalog resolves components from the build output: each component's
// manifest lives at lib/<name>/component.yaml under the build root.
type DirCatalog struct {
	Root string
}

const manifestFile = "component.yaml"

func (c DirCatalog) Lookup(name string) (*Definition, error) {
	path := filepath.Join(c.Root, "lib", name, manifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("component %s not found under %s: %w", name, c.Root, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("component %s: malformed manifest %s: %w", name, path, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Name != name {
		return nil, fmt.Errorf("component %s: manifest declares name %q", name, def.Name)
	}
	return &def, nil
}

// StaticCatalog is an in-memory catalog used for built-in components and in
// tests.
type StaticCatalog map[string]*Definition

func (c StaticCatalog) Lookup(name string) (*Definition, error) {
	def, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("component %s not found", name)
	}
	return def, nil
}
