// Package config implements the shell bootstrap's configuration resolution:
// ordered fallback lookup across named sources (command line, project config,
// release config), the project and release configuration loaders, and the
// total parser for the per-component settings file.
//
// Resolution never caches: every lookup re-evaluates the source chain in
// order and short-circuits on the first hit, reporting which source
// satisfied the request for diagnostics.
package config
