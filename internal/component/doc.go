// Package component implements the app boot sequencer: normalizing the
// resolved component set into specs, loading components and their transitive
// dependencies from a catalog, applying runtime settings before start, and
// starting everything that loaded while collecting per-component outcomes
// into a boot report.
package component
