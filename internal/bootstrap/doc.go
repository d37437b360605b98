// Package bootstrap sequences the interactive development shell: identity
// setup, front-end takeover, optional setup script, component boot and the
// resident command loop.
//
// The sequence is single-threaded and strictly ordered. Fatal conditions
// (ambiguous identity options, takeover timeout, script failure, duplicate
// shell registration) abort with a descriptive error; per-component load and
// start failures are collected into the boot report and never interrupt
// sibling work.
package bootstrap
