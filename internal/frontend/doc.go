// Package frontend replaces the process's interactive front-end and output
// sink during shell bootstrap.
//
// The Manager runs the takeover state machine: capture the old front-end,
// terminate it, start the replacement, poll for its registration within a
// bounded wait, migrate the output bindings of every live unit (directly
// bound or held through a predating front-end owner), and switch the log
// sink. The REPL is the replacement front-end itself: a readline command
// loop that doubles as the process output sink.
package frontend
