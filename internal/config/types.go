package config

// Option mapping keys consumed by the shell bootstrap. The cmd layer parses
// command-line flags into an OptionMapping; the core never touches flag
// parsing itself.
const (
	KeyConfig = "config"
	KeyScript = "script"
	KeyApps   = "apps"
	KeyName   = "name"
	KeySName  = "sname"
)

// OptionMapping is the already-parsed command-line input. It is created once
// at bootstrap start and never mutated afterwards.
type OptionMapping map[string]string

// ShellSection is the project configuration scoped under the "shell" key of
// anvil.yaml. Field names mirror the command-line options.
type ShellSection struct {
	Config string   `yaml:"config"`
	Script string   `yaml:"script"`
	Apps   []string `yaml:"apps"`
}

// ProjectConfig is the per-project configuration file.
type ProjectConfig struct {
	Shell ShellSection `yaml:"shell"`
}

// ReleaseConfig is the release-scoped configuration: the declared system
// configuration path and the release application list.
type ReleaseConfig struct {
	SysConfig string   `yaml:"sys_config"`
	Apps      []string `yaml:"apps"`
}

// AppSettings is one (component, settings) pair from the resolved
// configuration file.
type AppSettings struct {
	Component string
	Settings  map[string]any
}
