// Package unit implements the process-wide unit registry: the table of
// independently schedulable execution contexts, their registered names and
// their output bindings.
//
// The shell bootstrap treats this as a platform facility. The registry makes
// no global-consistency promises across units: each rebind is atomic for one
// unit only, and callers are expected to tolerate units terminating between
// enumeration and update.
package unit
