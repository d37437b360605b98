// Package logging provides leveled, subsystem-tagged logging for anvil on
// top of log/slog.
//
// The package owns a single process-wide output sink that can be swapped at
// runtime; the shell bootstrap uses this to redirect log output to the new
// interactive front-end once it has taken over. Named fallback writers keep
// output visible during the takeover window and can be removed once the new
// sink is live.
package logging
