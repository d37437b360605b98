package config

// OptionSource serves values from the parsed command-line option mapping.
type OptionSource struct {
	Options OptionMapping
}

func (s OptionSource) Name() string { return "command line" }

func (s OptionSource) Lookup(key string) (any, bool) {
	v, ok := s.Options[key]
	if !ok || v == "" {
		return nil, false
	}
	return v, true
}

// ProjectSource serves values from the project configuration's shell scope.
type ProjectSource struct {
	Shell ShellSection
}

func (s ProjectSource) Name() string { return "project config" }

func (s ProjectSource) Lookup(key string) (any, bool) {
	switch key {
	case KeyConfig:
		if s.Shell.Config != "" {
			return s.Shell.Config, true
		}
	case KeyScript:
		if s.Shell.Script != "" {
			return s.Shell.Script, true
		}
	case KeyApps:
		if len(s.Shell.Apps) > 0 {
			return s.Shell.Apps, true
		}
	}
	return nil, false
}

// ReleaseSource serves values from the release configuration: the declared
// system configuration path and the release application list.
type ReleaseSource struct {
	Release ReleaseConfig
}

func (s ReleaseSource) Name() string { return "release config" }

func (s ReleaseSource) Lookup(key string) (any, bool) {
	switch key {
	case KeyConfig:
		if s.Release.SysConfig != "" {
			return s.Release.SysConfig, true
		}
	case KeyApps:
		if len(s.Release.Apps) > 0 {
			return s.Release.Apps, true
		}
	}
	return nil, false
}
