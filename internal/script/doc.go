// Package script loads and executes the optional packaged setup bundle that
// runs before the interactive session starts.
//
// A bundle is a zip archive holding Lua sources and an optional manifest
// naming the main chunk and the entry function. The loader exposes host
// capabilities to the script under the global "anvil" table. Because a
// script prepares state the session depends on, every failure is fatal to
// the bootstrap.
package script
