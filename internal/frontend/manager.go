package frontend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anvil/internal/unit"
	"anvil/pkg/logging"

	"github.com/briandowns/spinner"
)

const (
	// RegisteredName is the discoverable name of the active front-end.
	RegisteredName = "frontend"

	// LogFallbackName is the name of the console fallback log writer
	// registered at process start and removed once the new front-end owns
	// the log sink.
	LogFallbackName = "console"
)

// fallbackRemovalAttempts bounds how often duplicate console fallbacks are
// removed before giving up with a warning.
const fallbackRemovalAttempts = 3

// TakeoverError is a fatal front-end replacement failure. Without a usable
// front-end the bootstrap cannot continue.
type TakeoverError struct {
	Step string
	Err  error
}

func (e *TakeoverError) Error() string {
	return fmt.Sprintf("front-end takeover failed at %s: %v", e.Step, e.Err)
}

func (e *TakeoverError) Unwrap() error { return e.Err }

// StartFunc starts the replacement front-end. The new front-end must
// register itself under RegisteredName once it is able to accept input.
type StartFunc func(reg *unit.Registry) error

// ManagerConfig tunes the takeover's bounded waits.
type ManagerConfig struct {
	// PollInterval is the fixed interval between registration checks.
	PollInterval time.Duration
	// WaitTimeout bounds the total registration wait.
	WaitTimeout time.Duration
	// ShowProgress displays a spinner during the registration wait.
	ShowProgress bool
}

// Manager replaces the unit acting as interactive front-end and output sink
// and repoints every live unit still bound to the old one.
type Manager struct {
	reg *unit.Registry
	cfg ManagerConfig
}

// NewManager returns a Manager over the given registry. Zero config fields
// get defaults (100ms poll, 3s total wait).
func NewManager(reg *unit.Registry, cfg ManagerConfig) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 3 * time.Second
	}
	return &Manager{reg: reg, cfg: cfg}
}

// Takeover runs the replacement sequence: capture the old front-end, stop
// it, start the new one, wait for it to register, migrate output bindings
// and switch the log sink.
//
// Capture, terminate, start and the registration wait are fatal on failure.
// Migration and the log-sink switch tolerate per-unit failures: a partially
// migrated set of units is an accepted, logged outcome.
func (m *Manager) Takeover(ctx context.Context, start StartFunc) (unit.ID, error) {
	old, ok := m.reg.Whereis(RegisteredName)
	if !ok {
		return "", &TakeoverError{Step: "capture", Err: errors.New("no active front-end registered")}
	}

	m.reg.Terminate(old)

	if err := start(m.reg); err != nil {
		return "", &TakeoverError{Step: "start", Err: err}
	}

	next, err := m.awaitRegistration(ctx, old)
	if err != nil {
		return "", &TakeoverError{Step: "await-registration", Err: err}
	}

	m.migrateDirect(old, next)
	m.migrateOwned(old, next)
	m.switchLogSink(next)

	logging.Info("FrontEnd", "Front-end replaced: %s -> %s", old, next)
	return next, nil
}

// awaitRegistration polls for the new front-end's identity at a fixed
// interval up to the configured ceiling.
func (m *Manager) awaitRegistration(ctx context.Context, old unit.ID) (unit.ID, error) {
	var s *spinner.Spinner
	if m.cfg.ShowProgress {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " waiting for front-end registration"
		s.Start()
		defer s.Stop()
	}

	deadline := time.Now().Add(m.cfg.WaitTimeout)
	for {
		if id, ok := m.reg.Whereis(RegisteredName); ok && id != old {
			return id, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("front-end did not register within %s", m.cfg.WaitTimeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.cfg.PollInterval):
		}
	}
}

// migrateDirect rebinds every live unit whose output binding equals the old
// front-end. Units that terminate between the snapshot and the rebind are
// skipped silently; termination races are expected and harmless.
func (m *Manager) migrateDirect(old, next unit.ID) {
	migrated := 0
	for _, id := range m.reg.List() {
		if id == next {
			continue
		}
		sink, ok := m.reg.OutputSink(id)
		if !ok || sink != old {
			continue
		}
		if err := m.reg.Rebind(id, old, next); err != nil {
			logging.Debug("FrontEnd", "Skipping unit %s during migration: %v", id, err)
			continue
		}
		migrated++
	}
	logging.Debug("FrontEnd", "Rebound %d directly bound units", migrated)
}

// migrateOwned rebinds units whose output binding is held through an owning
// front-end supervisor that predates the new front-end.
func (m *Manager) migrateOwned(old, next unit.ID) {
	newUnit, ok := m.reg.Get(next)
	if !ok {
		return
	}

	owners := make(map[unit.ID]bool)
	for _, id := range m.reg.List() {
		u, ok := m.reg.Get(id)
		if !ok {
			continue
		}
		if u.Role() == unit.RoleFrontEndOwner && u.CreatedAt().Before(newUnit.CreatedAt()) {
			owners[id] = true
		}
	}
	if len(owners) == 0 {
		return
	}

	migrated := 0
	for _, id := range m.reg.List() {
		sink, ok := m.reg.OutputSink(id)
		if !ok || !owners[sink] {
			continue
		}
		if err := m.reg.Rebind(id, sink, next); err != nil {
			logging.Debug("FrontEnd", "Skipping owned unit %s during migration: %v", id, err)
			continue
		}
		migrated++
	}
	logging.Debug("FrontEnd", "Rebound %d units held by %d front-end owners", migrated, len(owners))
}

// switchLogSink redirects log output to the new front-end and removes
// duplicate console fallbacks. Residual duplicates are a warning, never a
// failure.
func (m *Manager) switchLogSink(next unit.ID) {
	w, err := m.reg.SinkWriter(next)
	if err != nil {
		logging.Warn("FrontEnd", "New front-end has no sink writer, log output unchanged: %v", err)
		return
	}
	logging.SetSink(w)

	for attempt := 0; attempt < fallbackRemovalAttempts && logging.HasFallback(LogFallbackName); attempt++ {
		logging.RemoveFallback(LogFallbackName)
	}
	if logging.HasFallback(LogFallbackName) {
		logging.Warn("FrontEnd", "Residual duplicate console log fallback could not be removed")
	}
}
