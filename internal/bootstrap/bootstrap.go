package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"anvil/internal/component"
	"anvil/internal/config"
	"anvil/internal/frontend"
	"anvil/internal/nodename"
	"anvil/internal/script"
	"anvil/internal/unit"
	"anvil/pkg/logging"
)

// ShellName is the global registration of the interactive command loop.
// Exactly one shell may exist per process; registering a second one is a
// fatal naming conflict.
const ShellName = "shell"

// Config carries everything the shell bootstrap needs. Options is the
// already-parsed command-line mapping; flag parsing itself stays at the cmd
// edge.
type Config struct {
	// Root is the build root; relative configuration paths resolve
	// against it.
	Root string

	// Options is the parsed command-line option mapping.
	Options config.OptionMapping

	// Debug enables verbose logging.
	Debug bool

	// Identity starts distributed identity. Nil selects the default
	// network-probing service.
	Identity nodename.Service

	// Catalog resolves components to boot. Nil selects the build-output
	// catalog under Root.
	Catalog component.Catalog

	// FrontEnd tunes the takeover's bounded waits.
	FrontEnd frontend.ManagerConfig
}

// Shell is the interactive development shell bootstrap. It follows a
// two-phase pattern: New loads configuration and prepares the unit registry
// with the initial console front-end, Run executes the bootstrap sequence
// and blocks in the interactive loop.
type Shell struct {
	cfg     Config
	reg     *unit.Registry
	project config.ProjectConfig
	release config.ReleaseConfig
	env     *component.Env
	envOpts frontend.EnvOptions
}

// New creates a Shell: it initializes logging with the console fallback,
// loads the project and release configuration, and spawns the initial
// console front-end unit that the takeover will later replace.
func New(cfg Config) (*Shell, error) {
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stdout)
	logging.AddFallback(frontend.LogFallbackName, os.Stderr)

	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Identity == nil {
		cfg.Identity = nodename.NewService("")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = component.DirCatalog{Root: cfg.Root}
	}

	project, err := config.LoadProjectConfig(cfg.Root)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load project configuration")
		return nil, fmt.Errorf("failed to load project configuration: %w", err)
	}
	release, err := config.LoadReleaseConfig(cfg.Root)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load release configuration")
		return nil, fmt.Errorf("failed to load release configuration: %w", err)
	}

	envOpts, err := frontend.ParseEnvOptions()
	if err != nil {
		return nil, err
	}
	if envOpts.NoColor {
		cfg.FrontEnd.ShowProgress = false
	}

	reg := unit.NewRegistry()
	console := reg.Spawn(unit.RoleFrontEnd, unit.WithSink(os.Stdout))
	if err := reg.Register(frontend.RegisteredName, console.ID()); err != nil {
		return nil, err
	}

	return &Shell{
		cfg:     cfg,
		reg:     reg,
		project: project,
		release: release,
		env:     component.NewEnv(),
		envOpts: envOpts,
	}, nil
}

// Registry exposes the process-wide unit registry.
func (s *Shell) Registry() *unit.Registry {
	return s.reg
}

// Env exposes the component settings store.
func (s *Shell) Env() *component.Env {
	return s.env
}

// Run executes the bootstrap sequence strictly in order: identity, front-end
// takeover, setup script, component boot, then the resident interactive
// loop. It returns when the loop exits or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	// Ambiguous identity options abort before any other step runs.
	mode, identity, err := nodename.Plan(s.cfg.Options[config.KeyName], s.cfg.Options[config.KeySName])
	if err != nil {
		return &ConfigurationError{Err: err}
	}
	if mode != nodename.ModeNone {
		if err := s.cfg.Identity.Start(identity, mode); err != nil {
			logging.Warn("Bootstrap", "Distributed identity unavailable, continuing un-networked: %v", err)
		}
	}

	repl := frontend.NewREPL(s.envOpts, s.env)
	mgr := frontend.NewManager(s.reg, s.cfg.FrontEnd)
	next, err := mgr.Takeover(ctx, repl.Start)
	if err != nil {
		return err
	}

	if err := s.runScript(); err != nil {
		return err
	}

	report, err := s.bootComponents(ctx)
	if err != nil {
		return err
	}
	repl.SetReport(report)
	if len(report.Outcomes) > 0 {
		if w, err := s.reg.SinkWriter(next); err == nil {
			fmt.Fprintln(w, report.Render())
		}
	}

	// The interactive loop is registered once, globally, for the lifetime
	// of the process.
	if err := s.reg.Register(ShellName, next); err != nil {
		return fmt.Errorf("interactive loop already running: %w", err)
	}

	logging.Info("Bootstrap", "Shell ready")
	select {
	case <-repl.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runScript resolves the script-bundle chain and executes the bundle when
// one is configured. Failures are fatal; a script prepares state the
// session depends on.
func (s *Shell) runScript() error {
	sources := []config.Source{
		config.OptionSource{Options: s.cfg.Options},
		config.ProjectSource{Shell: s.project.Shell},
	}
	resolved, ok := config.Resolve(sources, config.KeyScript)
	if !ok {
		return nil
	}
	path, ok := resolved.Value.(string)
	if !ok || path == script.Disabled {
		return nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.Root, path)
	}

	logging.Info("Bootstrap", "Running script bundle %s (from %s)", path, resolved.Source)
	runner := script.NewRunner(&script.LuaLoader{
		Hooks: script.Hooks{SetEnv: s.env.Set},
	})
	return runner.Run(path)
}

// bootComponents resolves the settings file and the component set, then
// hands both to the sequencer.
func (s *Shell) bootComponents(ctx context.Context) (*component.Report, error) {
	sources := []config.Source{
		config.OptionSource{Options: s.cfg.Options},
		config.ProjectSource{Shell: s.project.Shell},
		config.ReleaseSource{Release: s.release},
	}

	var settings []config.AppSettings
	if resolved, ok := config.Resolve(sources, config.KeyConfig); ok {
		if path, ok := resolved.Value.(string); ok {
			settings = config.ReadAppSettings(s.cfg.Root, path)
		}
	}

	var specs []component.Spec
	if resolved, ok := config.Resolve(sources, config.KeyApps); ok {
		parsed, err := component.ParseSpecs(resolved.Value)
		if err != nil {
			return nil, &ConfigurationError{Err: err}
		}
		specs = parsed
	}

	seq := component.NewSequencer(s.cfg.Catalog, s.env)
	return seq.Boot(ctx, specs, settings), nil
}
