package component

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"anvil/internal/config"
	"anvil/pkg/logging"
)

// Sequencer loads and starts the resolved component set, including
// transitive dependencies, and collects per-component outcomes. One
// component's failure never aborts its siblings.
type Sequencer struct {
	catalog Catalog
	env     *Env

	loaded   map[string]*Definition
	order    []string // registration order: dependency before dependent
	failures map[string]string
	loadOnly map[string]bool
	started  map[string]bool
}

// NewSequencer returns a sequencer resolving components from catalog and
// applying settings to env.
func NewSequencer(catalog Catalog, env *Env) *Sequencer {
	return &Sequencer{
		catalog:  catalog,
		env:      env,
		loaded:   make(map[string]*Definition),
		failures: make(map[string]string),
		loadOnly: make(map[string]bool),
		started:  make(map[string]bool),
	}
}

// Boot runs the full sequence. A nil spec list means no component set was
// resolved anywhere: settings are applied to already-running components and
// nothing is loaded or started.
func (s *Sequencer) Boot(ctx context.Context, specs []Spec, settings []config.AppSettings) *Report {
	report := &Report{}

	if specs == nil {
		s.applySettings(settings)
		return report
	}

	for _, spec := range specs {
		s.load(spec.Name, spec.Version)
		if spec.LoadOnly {
			s.loadOnly[spec.Name] = true
		}
	}

	// Settings must be visible to component initialization code.
	s.applySettings(settings)

	failedNames := make([]string, 0, len(s.failures))
	for name := range s.failures {
		failedNames = append(failedNames, name)
	}
	sort.Strings(failedNames)
	for _, name := range failedNames {
		reason := s.failures[name]
		logging.Error("BootSequencer", errors.New(reason), "Failed to load component %s", name)
		report.add(Outcome{Component: name, Result: LoadFailed, Reason: reason})
	}

	for _, name := range s.order {
		if s.loadOnly[name] {
			logging.Debug("BootSequencer", "Component %s is load-only, not starting", name)
			continue
		}
		def := s.loaded[name]
		if reason, failed := s.startBlocked(def); failed {
			logging.Error("BootSequencer", errors.New(reason), "Failed to start component %s", name)
			report.add(Outcome{Component: name, Version: def.Version, Result: StartFailed, Reason: reason})
			continue
		}
		if def.Start != nil {
			if err := def.Start(ctx, s.env); err != nil {
				logging.Error("BootSequencer", err, "Failed to start component %s", name)
				report.add(Outcome{Component: name, Version: def.Version, Result: StartFailed, Reason: err.Error()})
				continue
			}
		}
		s.started[name] = true
		logging.Info("BootSequencer", "Started component %s", name)
		report.add(Outcome{Component: name, Version: def.Version, Result: Started})
	}

	return report
}

// load makes the component and its transitive dependencies available,
// depth-first with dependencies registered before dependents. Components
// that are already loaded (or already failed) are not attempted again. The
// component is marked loaded before its dependency walk so that cyclic
// manifests terminate; members of a cycle then fail at start because their
// dependencies never reach the started set.
func (s *Sequencer) load(name, version string) {
	if _, ok := s.loaded[name]; ok {
		return
	}
	if _, failed := s.failures[name]; failed {
		return
	}

	def, err := s.catalog.Lookup(name)
	if err != nil {
		s.failures[name] = err.Error()
		return
	}
	if version != "" && def.Version != version {
		s.failures[name] = fmt.Sprintf("version %s required, found %s", version, def.Version)
		return
	}

	s.loaded[name] = def
	for _, dep := range def.Requires {
		s.load(dep, "")
	}

	s.order = append(s.order, name)
	logging.Debug("BootSequencer", "Loaded component %s %s", name, def.Version)
}

// startBlocked reports whether a component cannot start because one of its
// declared dependencies is not running.
func (s *Sequencer) startBlocked(def *Definition) (string, bool) {
	for _, dep := range def.Requires {
		if !s.started[dep] {
			return fmt.Sprintf("dependency %s not started", dep), true
		}
	}
	return "", false
}

func (s *Sequencer) applySettings(settings []config.AppSettings) {
	for _, entry := range settings {
		for key, value := range entry.Settings {
			s.env.Set(entry.Component, key, value)
		}
		logging.Debug("BootSequencer", "Applied %d settings to component %s", len(entry.Settings), entry.Component)
	}
}

// Loaded reports whether a component was successfully loaded.
func (s *Sequencer) Loaded(name string) bool {
	_, ok := s.loaded[name]
	return ok
}

// StartedComponents returns the names of all started components in
// registration order.
func (s *Sequencer) StartedComponents() []string {
	var names []string
	for _, name := range s.order {
		if s.started[name] {
			names = append(names, name)
		}
	}
	return names
}
