package frontend

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"anvil/internal/unit"
	"anvil/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFrontEnd is a front-end stand-in that registers itself after an
// optional delay, the way the real REPL registers once readline is up.
type fakeFrontEnd struct {
	delay time.Duration
	buf   *bytes.Buffer
	unit  *unit.Unit
}

func (f *fakeFrontEnd) Start(reg *unit.Registry) error {
	f.buf = &bytes.Buffer{}
	f.unit = reg.Spawn(unit.RoleFrontEnd, unit.WithSink(f.buf))
	register := func() {
		_ = reg.Register(RegisteredName, f.unit.ID())
	}
	if f.delay > 0 {
		go func() {
			time.Sleep(f.delay)
			register()
		}()
		return nil
	}
	register()
	return nil
}

func newTestRegistry(t *testing.T) (*unit.Registry, unit.ID) {
	t.Helper()
	reg := unit.NewRegistry()
	console := reg.Spawn(unit.RoleFrontEnd, unit.WithSink(&bytes.Buffer{}))
	require.NoError(t, reg.Register(RegisteredName, console.ID()))
	return reg, console.ID()
}

func testManager(reg *unit.Registry) *Manager {
	return NewManager(reg, ManagerConfig{
		PollInterval: 10 * time.Millisecond,
		WaitTimeout:  500 * time.Millisecond,
	})
}

func TestTakeoverMigratesDirectBindings(t *testing.T) {
	reg, old := newTestRegistry(t)

	bound := reg.Spawn(unit.RoleWorker)
	require.NoError(t, reg.BindOutput(bound.ID(), old))
	other := reg.Spawn(unit.RoleFrontEnd, unit.WithSink(&bytes.Buffer{}))
	elsewhere := reg.Spawn(unit.RoleWorker)
	require.NoError(t, reg.BindOutput(elsewhere.ID(), other.ID()))

	fe := &fakeFrontEnd{}
	next, err := testManager(reg).Takeover(context.Background(), fe.Start)
	require.NoError(t, err)
	assert.Equal(t, fe.unit.ID(), next)

	// No live unit that existed before migration may still be bound to the
	// old front-end.
	for _, id := range reg.List() {
		sink, ok := reg.OutputSink(id)
		if ok {
			assert.NotEqual(t, old, sink, "unit %s still bound to the old front-end", id)
		}
	}

	sink, ok := reg.OutputSink(bound.ID())
	require.True(t, ok)
	assert.Equal(t, next, sink)

	// Units bound elsewhere are untouched.
	sink, ok = reg.OutputSink(elsewhere.ID())
	require.True(t, ok)
	assert.Equal(t, other.ID(), sink)
}

func TestTakeoverToleratesTerminatedUnits(t *testing.T) {
	reg, old := newTestRegistry(t)

	doomed := reg.Spawn(unit.RoleWorker)
	require.NoError(t, reg.BindOutput(doomed.ID(), old))
	reg.Terminate(doomed.ID())

	fe := &fakeFrontEnd{}
	_, err := testManager(reg).Takeover(context.Background(), fe.Start)
	assert.NoError(t, err, "a unit that vanished must not fail the takeover")
}

func TestTakeoverMigratesOwnedBindings(t *testing.T) {
	reg, old := newTestRegistry(t)

	owner := reg.Spawn(unit.RoleFrontEndOwner, unit.WithSink(&bytes.Buffer{}))
	require.NoError(t, reg.BindOutput(owner.ID(), old))
	dependent := reg.Spawn(unit.RoleWorker)
	require.NoError(t, reg.BindOutput(dependent.ID(), owner.ID()))

	fe := &fakeFrontEnd{}
	next, err := testManager(reg).Takeover(context.Background(), fe.Start)
	require.NoError(t, err)

	sink, ok := reg.OutputSink(dependent.ID())
	require.True(t, ok)
	assert.Equal(t, next, sink, "dependents of predating front-end owners must be rebound")
}

func TestTakeoverWaitsForDelayedRegistration(t *testing.T) {
	reg, old := newTestRegistry(t)

	fe := &fakeFrontEnd{delay: 100 * time.Millisecond}
	next, err := testManager(reg).Takeover(context.Background(), fe.Start)
	require.NoError(t, err)
	assert.NotEqual(t, old, next)
}

func TestTakeoverRegistrationTimeout(t *testing.T) {
	reg, _ := newTestRegistry(t)

	// A front-end that never registers.
	start := func(r *unit.Registry) error {
		r.Spawn(unit.RoleFrontEnd, unit.WithSink(&bytes.Buffer{}))
		return nil
	}

	mgr := NewManager(reg, ManagerConfig{
		PollInterval: 10 * time.Millisecond,
		WaitTimeout:  50 * time.Millisecond,
	})
	_, err := mgr.Takeover(context.Background(), start)
	require.Error(t, err)

	var takeover *TakeoverError
	require.ErrorAs(t, err, &takeover)
	assert.Equal(t, "await-registration", takeover.Step)
}

func TestTakeoverStartFailureIsFatal(t *testing.T) {
	reg, _ := newTestRegistry(t)

	start := func(r *unit.Registry) error {
		return errors.New("tty unavailable")
	}

	_, err := testManager(reg).Takeover(context.Background(), start)
	var takeover *TakeoverError
	require.ErrorAs(t, err, &takeover)
	assert.Equal(t, "start", takeover.Step)
}

func TestTakeoverWithoutActiveFrontEnd(t *testing.T) {
	reg := unit.NewRegistry()

	_, err := testManager(reg).Takeover(context.Background(), (&fakeFrontEnd{}).Start)
	var takeover *TakeoverError
	require.ErrorAs(t, err, &takeover)
	assert.Equal(t, "capture", takeover.Step)
}

func TestTakeoverSwitchesLogSink(t *testing.T) {
	initial := &bytes.Buffer{}
	logging.Init(logging.LevelInfo, initial)
	logging.AddFallback(LogFallbackName, &bytes.Buffer{})
	logging.AddFallback(LogFallbackName, &bytes.Buffer{})

	reg, _ := newTestRegistry(t)
	fe := &fakeFrontEnd{}
	_, err := testManager(reg).Takeover(context.Background(), fe.Start)
	require.NoError(t, err)

	assert.False(t, logging.HasFallback(LogFallbackName), "duplicate fallbacks must be removed")

	logging.Info("test", "after takeover")
	assert.Contains(t, fe.buf.String(), "after takeover")
	assert.NotContains(t, initial.String(), "after takeover")
}
