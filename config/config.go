// Package config loads the browser's optional TOML configuration file: a
// default session ([session]) and a set of named, recallable filter
// expressions ([filters]), following the same raw-map-then-typed decode
// shape the wider codebase uses for its configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SessionConfig is the [session] table: the default root directory and
// relative start time a bare invocation with --config falls back to.
type SessionConfig struct {
	Directory string `toml:"directory"`
	From      string `toml:"from"`
}

// Config is the decoded configuration file.
type Config struct {
	Session *SessionConfig    `toml:"session"`
	Filters map[string]string `toml:"filters"`
}

// LoadConfig reads and decodes path. The [filters] table is decoded as a
// raw map first, since the remaining sections may grow independently of
// this type, mirroring the two-pass decode already used elsewhere in the
// codebase for sectioned TOML files.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{Filters: make(map[string]string)}

	if sessionMap, ok := raw["session"].(map[string]any); ok {
		cfg.Session = parseSessionConfig(sessionMap)
	}
	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}

	if filtersMap, ok := raw["filters"].(map[string]any); ok {
		for name, v := range filtersMap {
			if text, ok := v.(string); ok {
				cfg.Filters[name] = text
			}
		}
	}

	return cfg, nil
}

func parseSessionConfig(m map[string]any) *SessionConfig {
	sc := &SessionConfig{}
	if v, ok := m["directory"].(string); ok {
		sc.Directory = v
	}
	if v, ok := m["from"].(string); ok {
		sc.From = v
	}
	return sc
}

// Filter looks up a named preset by name.
func (c *Config) Filter(name string) (string, bool) {
	text, ok := c.Filters[name]
	return text, ok
}
