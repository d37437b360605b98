package unit

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	// ErrUnitGone is returned when the target of an operation has already
	// been terminated. Callers performing migration treat this as a benign
	// race, not a failure.
	ErrUnitGone = errors.New("unit no longer alive")

	// ErrBindingChanged is returned by Rebind when the unit's output binding
	// no longer matches the expected value.
	ErrBindingChanged = errors.New("output binding changed")

	// ErrNoSink is returned when a unit is asked to act as an output sink
	// but was spawned without one.
	ErrNoSink = errors.New("unit has no output sink")
)

// NameTakenError indicates an attempt to register a name that is already
// bound to a live unit. Registering the global shell name twice is a fatal
// bootstrap condition, so this error carries enough context to report it.
type NameTakenError struct {
	Name string
	ID   ID
}

func (e *NameTakenError) Error() string {
	return fmt.Sprintf("name %q already registered to unit %s", e.Name, e.ID)
}

// Registry is the process-wide unit table: live units, their registered
// names, and the output-binding table mapping each unit to the unit acting
// as its output sink.
//
// Every mutation is independently atomic per unit. There is deliberately no
// cross-unit transaction; migration copes with units vanishing between a
// snapshot and the subsequent rebind.
type Registry struct {
	mu       sync.RWMutex
	units    map[ID]*Unit
	names    map[string]ID
	bindings map[ID]ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		units:    make(map[ID]*Unit),
		names:    make(map[string]ID),
		bindings: make(map[ID]ID),
	}
}

// Spawn creates and tracks a new unit.
func (r *Registry) Spawn(role Role, opts ...Option) *Unit {
	u := newUnit(role, opts...)
	r.mu.Lock()
	r.units[u.id] = u
	r.mu.Unlock()
	return u
}

// Register binds a name to a live unit. Names are unique; a second
// registration fails with *NameTakenError.
func (r *Registry) Register(name string, id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.names[name]; ok {
		return &NameTakenError{Name: name, ID: existing}
	}
	if _, ok := r.units[id]; !ok {
		return ErrUnitGone
	}
	r.names[name] = id
	return nil
}

// Whereis resolves a registered name to a unit ID.
func (r *Registry) Whereis(name string) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	return id, ok
}

// Get returns the unit for id if it is still alive.
func (r *Registry) Get(id ID) (*Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	return u, ok
}

// List returns a snapshot of all live unit IDs. Units may terminate between
// the snapshot and any follow-up operation.
func (r *Registry) List() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]ID, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}
	return ids
}

// BindOutput points a unit's output at the given sink unit.
func (r *Registry) BindOutput(id, sink ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.units[id]; !ok {
		return ErrUnitGone
	}
	r.bindings[id] = sink
	return nil
}

// OutputSink returns the unit currently bound as id's output sink.
func (r *Registry) OutputSink(id ID) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.bindings[id]
	return sink, ok
}

// Rebind performs a single compare-and-update of a unit's output binding:
// it succeeds only if the unit is still alive and its binding still equals
// old. A terminated unit yields ErrUnitGone.
func (r *Registry) Rebind(id, old, new ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.units[id]; !ok {
		return ErrUnitGone
	}
	if current, ok := r.bindings[id]; !ok || current != old {
		return ErrBindingChanged
	}
	r.bindings[id] = new
	return nil
}

// SinkWriter returns the writer backing a sink unit.
func (r *Registry) SinkWriter(id ID) (io.Writer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[id]
	if !ok {
		return nil, ErrUnitGone
	}
	if u.sink == nil {
		return nil, ErrNoSink
	}
	return u.sink, nil
}

// Terminate stops a unit: its stop hook runs, its names are released and it
// is removed from the unit and binding tables. Terminating an already-gone
// unit is a no-op.
func (r *Registry) Terminate(id ID) {
	r.mu.Lock()
	u, ok := r.units[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.units, id)
	delete(r.bindings, id)
	for name, bound := range r.names {
		if bound == id {
			delete(r.names, name)
		}
	}
	r.mu.Unlock()

	if u.stop != nil {
		u.stop()
	}
}
