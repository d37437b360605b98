package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"

	"anvil/pkg/logging"

	"gopkg.in/yaml.v3"
)

// ReadAppSettings reads the resolved configuration file and returns its
// (component, settings) pairs.
//
// The file is a YAML document stream; each document is expected to be a list
// of single-entry component-to-settings mappings. Only the first document
// that yields such a non-empty list is honored, everything else is ignored.
//
// Parsing is total: a missing file, an empty file and malformed content all
// yield "no configuration" (nil), never an error. Relative paths resolve
// against the build root.
func ReadAppSettings(root, path string) []AppSettings {
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	f, err := os.Open(path)
	if err != nil {
		logging.Debug("ConfigFile", "No configuration file at %s", path)
		return nil
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	for {
		var doc []map[string]map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			logging.Warn("ConfigFile", "Ignoring malformed configuration file %s: %v", path, err)
			return nil
		}
		if settings := flattenSettings(doc); len(settings) > 0 {
			logging.Debug("ConfigFile", "Loaded settings for %d components from %s", len(settings), path)
			return settings
		}
	}
}

// flattenSettings turns the decoded document into an ordered settings list.
// Components inside one list entry are ordered by name so repeated reads of
// the same file apply in a stable order.
func flattenSettings(doc []map[string]map[string]any) []AppSettings {
	var out []AppSettings
	for _, entry := range doc {
		names := make([]string, 0, len(entry))
		for name := range entry {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, AppSettings{Component: name, Settings: entry[name]})
		}
	}
	return out
}
