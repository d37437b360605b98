package unit

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ID uniquely identifies a unit within the process registry.
type ID string

// Role records what a unit was spawned to do. It is set once at spawn time
// and never changes; migration logic relies on it to recognise front-end
// owners that predate the current takeover.
type Role string

const (
	// RoleWorker is the default role for spawned units.
	RoleWorker Role = "worker"
	// RoleFrontEnd marks a unit acting as interactive front-end and output sink.
	RoleFrontEnd Role = "frontend"
	// RoleFrontEndOwner marks a unit that supervises the front-end for a
	// dependent subsystem and holds its dependents' output bindings.
	RoleFrontEndOwner Role = "frontend-owner"
)

// Unit is an independently schedulable execution context tracked by the
// registry. A unit with a sink writer can act as an output sink for other
// units.
type Unit struct {
	id        ID
	role      Role
	createdAt time.Time
	sink      io.Writer
	stop      func()
}

// Option configures a unit at spawn time.
type Option func(*Unit)

// WithSink makes the unit usable as an output sink backed by w.
func WithSink(w io.Writer) Option {
	return func(u *Unit) { u.sink = w }
}

// WithStop attaches a hook invoked when the unit is terminated.
func WithStop(fn func()) Option {
	return func(u *Unit) { u.stop = fn }
}

func newUnit(role Role, opts ...Option) *Unit {
	u := &Unit{
		id:        ID(uuid.NewString()),
		role:      role,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ID returns the unit's identifier.
func (u *Unit) ID() ID { return u.id }

// Role returns the role recorded at spawn time.
func (u *Unit) Role() Role { return u.role }

// CreatedAt returns the unit's spawn time.
func (u *Unit) CreatedAt() time.Time { return u.createdAt }
