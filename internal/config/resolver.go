package config

import (
	"anvil/pkg/logging"
)

// Source is one ordered, named provider of configuration values. A source
// either yields a value for a key or reports that it has none; it never
// errors.
type Source interface {
	// Name identifies the source in diagnostics ("command line",
	// "project config", ...). It never affects resolution.
	Name() string

	// Lookup returns the source's value for key, if it has one.
	Lookup(key string) (any, bool)
}

// Resolved is the outcome of a successful chain lookup: the value plus which
// source produced it, kept for diagnostics only.
type Resolved struct {
	Key    string
	Value  any
	Source string
}

// Resolve evaluates sources strictly in order and returns the first value
// found, short-circuiting the remaining sources. The second return is false
// when every source reports no value.
//
// Resolution is recomputed on every call; sources are cheap, deterministic
// lookups and results are never cached.
func Resolve(sources []Source, key string) (Resolved, bool) {
	for _, src := range sources {
		if v, ok := src.Lookup(key); ok {
			logging.Debug("ConfigResolver", "resolved %q from %s", key, src.Name())
			return Resolved{Key: key, Value: v, Source: src.Name()}, true
		}
	}
	return Resolved{}, false
}

// ResolveDefault is Resolve with a caller-supplied fallback used when all
// sources report no value.
func ResolveDefault(sources []Source, key string, def any) Resolved {
	if r, ok := Resolve(sources, key); ok {
		return r
	}
	return Resolved{Key: key, Value: def, Source: "default"}
}
