package cmd

import (
	"context"

	"anvil/internal/bootstrap"
	"anvil/internal/config"
	"anvil/internal/frontend"

	"github.com/spf13/cobra"
)

// shellConfig is the path of the per-component settings file applied before
// components start.
var shellConfig string

// shellName requests fully-qualified distributed identity.
var shellName string

// shellSName requests host-local distributed identity.
var shellSName string

// shellScript is the path of a packaged setup script bundle executed before
// the interactive session starts.
var shellScript string

// shellApps is the delimited list of components to boot.
var shellApps string

// shellRoot is the build root; relative paths resolve against it.
var shellRoot string

// shellDebug enables verbose logging across the bootstrap.
var shellDebug bool

// shellCmd boots the interactive development shell inside the build tool's
// own process.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive development shell with the project's components loaded",
	Long: `Starts a long-lived interactive shell inside the anvil process with the
project's compiled components and their dependencies loaded.

Configuration values fall back across ordered sources: command-line
options first, then the shell scope of the project configuration
(anvil.yaml), then the release configuration (release.yaml). A setup
script bundle, when configured, runs before the session starts; a script
path of "none" disables it explicitly.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// runShell is the main entry point for the shell command.
func runShell(cmd *cobra.Command, args []string) error {
	opts := config.OptionMapping{}
	if shellConfig != "" {
		opts[config.KeyConfig] = shellConfig
	}
	if shellName != "" {
		opts[config.KeyName] = shellName
	}
	if shellSName != "" {
		opts[config.KeySName] = shellSName
	}
	if shellScript != "" {
		opts[config.KeyScript] = shellScript
	}
	if shellApps != "" {
		opts[config.KeyApps] = shellApps
	}

	shell, err := bootstrap.New(bootstrap.Config{
		Root:     shellRoot,
		Options:  opts,
		Debug:    shellDebug,
		FrontEnd: frontend.ManagerConfig{ShowProgress: !shellDebug},
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return shell.Run(ctx)
}

func init() {
	shellCmd.Flags().StringVar(&shellConfig, "config", "", "path of the component settings file")
	shellCmd.Flags().StringVar(&shellName, "name", "", "fully-qualified distributed identity")
	shellCmd.Flags().StringVar(&shellSName, "sname", "", "host-local distributed identity")
	shellCmd.Flags().StringVar(&shellScript, "script", "", "setup script bundle to run before the session (\"none\" disables)")
	shellCmd.Flags().StringVar(&shellApps, "apps", "", "components to boot (comma, space or colon delimited)")
	shellCmd.Flags().StringVar(&shellRoot, "root", ".", "build root")
	shellCmd.Flags().BoolVar(&shellDebug, "debug", false, "enable verbose logging")

	rootCmd.AddCommand(shellCmd)
}
