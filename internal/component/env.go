package component

import "sync"

// Env is the process-wide store of per-component runtime settings. Settings
// are applied from the resolved configuration file (and by setup scripts)
// before any component starts, so a component's initialization code sees
// them.
type Env struct {
	mu   sync.RWMutex
	vals map[string]map[string]any
}

// NewEnv returns an empty settings store.
func NewEnv() *Env {
	return &Env{vals: make(map[string]map[string]any)}
}

// Set stores one setting for a component.
func (e *Env) Set(component, key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	settings, ok := e.vals[component]
	if !ok {
		settings = make(map[string]any)
		e.vals[component] = settings
	}
	settings[key] = value
}

// Get returns one setting for a component.
func (e *Env) Get(component, key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	settings, ok := e.vals[component]
	if !ok {
		return nil, false
	}
	v, ok := settings[key]
	return v, ok
}

// All returns a copy of a component's settings.
func (e *Env) All(component string) map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	settings, ok := e.vals[component]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		out[k] = v
	}
	return out
}
