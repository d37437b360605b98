package cmd

import (
	"errors"
	"os"

	"anvil/internal/bootstrap"
	"anvil/internal/frontend"
	"anvil/internal/script"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can distinguish failure classes.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeConfiguration indicates an invalid or ambiguous option combination.
	ExitCodeConfiguration = 2
	// ExitCodeTakeover indicates the front-end replacement failed or timed out.
	ExitCodeTakeover = 3
	// ExitCodeScript indicates the setup script bundle failed.
	ExitCodeScript = 4
)

// rootCmd represents the base command for the anvil build tool.
var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Build tool with an interactive development shell",
	Long: `anvil builds a project's components and can drop you into an
interactive development shell with the compiled components and their
dependencies already loaded, so you can inspect and invoke the runtime
artifacts directly.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "anvil version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the exit code based on the error type.
func getExitCode(err error) int {
	var confErr *bootstrap.ConfigurationError
	if errors.As(err, &confErr) {
		return ExitCodeConfiguration
	}

	var takeoverErr *frontend.TakeoverError
	if errors.As(err, &takeoverErr) {
		return ExitCodeTakeover
	}

	var scriptErr *script.Error
	if errors.As(err, &scriptErr) {
		return ExitCodeScript
	}

	return ExitCodeError
}
