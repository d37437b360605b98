package script

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"

	"anvil/pkg/logging"

	lua "github.com/Shopify/go-lua"
	"gopkg.in/yaml.v3"
)

// Disabled is the sentinel path value meaning "explicitly no script".
const Disabled = "none"

// Stage identifies where script execution failed.
type Stage string

const (
	StageExtract Stage = "extract"
	StageLoad    Stage = "load"
	StageInvoke  Stage = "invoke"
)

// Error is a fatal script failure. Scripts prepare state the interactive
// session depends on, so any failure aborts the whole bootstrap with the
// file, the failing stage and a captured stack trace.
type Error struct {
	Path  string
	Stage Stage
	Err   error
	Stack []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s failed at %s: %v", e.Path, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(path string, stage Stage, err error) *Error {
	return &Error{Path: path, Stage: stage, Err: err, Stack: debug.Stack()}
}

// manifest describes the bundle layout. Both fields are optional.
type manifest struct {
	// Main names the Lua chunk inside the archive.
	Main string `yaml:"main"`
	// Entry names the global function invoked after the chunk runs.
	Entry string `yaml:"entry"`
}

const (
	manifestName = "manifest.yaml"
	defaultMain  = "main.lua"
	defaultEntry = "main"
)

// Handle is a loaded, runtime-addressable script unit.
type Handle struct {
	state *lua.State
}

// Loader turns a compiled payload into an invocable handle.
type Loader interface {
	Load(payload []byte, name string) (*Handle, error)
	Invoke(h *Handle, entry string) error
}

// Hooks are the host capabilities exposed to scripts under the global
// "anvil" table.
type Hooks struct {
	// SetEnv stores a runtime setting for a component, visible to the
	// component's initialization code and to the interactive session.
	SetEnv func(component, key string, value any)
}

// LuaLoader loads payloads into a fresh Lua state with the host bindings
// installed.
type LuaLoader struct {
	Hooks Hooks
}

func (l *LuaLoader) Load(payload []byte, name string) (*Handle, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	l.registerHooks(state)

	if err := lua.LoadBuffer(state, string(payload), name, ""); err != nil {
		return nil, fmt.Errorf("load chunk %s: %w", name, err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run chunk %s: %w", name, err)
	}
	return &Handle{state: state}, nil
}

func (l *LuaLoader) Invoke(h *Handle, entry string) error {
	h.state.Global(entry)
	if h.state.TypeOf(-1) != lua.TypeFunction {
		h.state.Pop(1)
		return fmt.Errorf("entry point %q is not a function", entry)
	}
	if err := h.state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("entry point %q: %w", entry, err)
	}
	return nil
}

func (l *LuaLoader) registerHooks(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "set_env", Function: func(s *lua.State) int {
			component := lua.CheckString(s, 1)
			key := lua.CheckString(s, 2)
			value := s.ToValue(3)
			if l.Hooks.SetEnv != nil {
				l.Hooks.SetEnv(component, key, value)
			}
			return 0
		}},
	}, 0)
	state.SetGlobal("anvil")
}

// Runner loads and executes an optional packaged script bundle before the
// interactive session starts.
type Runner struct {
	loader Loader
}

// NewRunner returns a Runner backed by the given loader.
func NewRunner(loader Loader) *Runner {
	return &Runner{loader: loader}
}

// Run resolves path to an absolute path, extracts the bundle's payload,
// loads it and invokes its entry point with no arguments. Every failure is
// fatal and returned as *Error.
func (r *Runner) Run(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fail(path, StageExtract, err)
	}

	payload, entry, err := extract(abs)
	if err != nil {
		return fail(abs, StageExtract, err)
	}

	handle, err := r.loader.Load(payload, filepath.Base(abs))
	if err != nil {
		return fail(abs, StageLoad, err)
	}

	if err := r.loader.Invoke(handle, entry); err != nil {
		return fail(abs, StageInvoke, err)
	}

	logging.Info("ScriptRunner", "Executed script bundle %s", abs)
	return nil
}

// extract reads the bundle archive and returns the main chunk's bytes plus
// the entry point name.
func extract(path string) ([]byte, string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("open bundle: %w", err)
	}
	defer archive.Close()

	m := manifest{Main: defaultMain, Entry: defaultEntry}
	if data, err := readEntry(&archive.Reader, manifestName); err == nil {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", manifestName, err)
		}
		if m.Main == "" {
			m.Main = defaultMain
		}
		if m.Entry == "" {
			m.Entry = defaultEntry
		}
	}

	payload, err := readEntry(&archive.Reader, m.Main)
	if err != nil {
		return nil, "", fmt.Errorf("read chunk %s: %w", m.Main, err)
	}
	return payload, m.Entry, nil
}

func readEntry(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("bundle has no entry %q", name)
}
