package frontend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// EnvOptions are the shell-session settings read from the environment.
type EnvOptions struct {
	// HistoryFile is where the interactive session persists its command
	// history. Defaults to ~/.anvil_history.
	HistoryFile string `env:"ANVIL_SHELL_HISTORY"`
	// Prompt is the prompt prefix shown by the interactive session.
	Prompt string `env:"ANVIL_SHELL_PROMPT" envDefault:"anvil"`
	// NoColor suppresses progress decoration on terminals that request it.
	NoColor bool `env:"NO_COLOR"`
}

// ParseEnvOptions loads EnvOptions from environment variables.
func ParseEnvOptions() (EnvOptions, error) {
	var opts EnvOptions
	if err := env.Parse(&opts); err != nil {
		return EnvOptions{}, fmt.Errorf("parse env: %w", err)
	}
	if opts.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.HistoryFile = filepath.Join(home, ".anvil_history")
		}
	}
	return opts, nil
}
