package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the workspace-local config file name.
const LocalConfigFileName = ".gqc.toml"

// LocalConfig holds per-workspace overrides from .gqc.toml.
// Nil pointers and empty slices indicate "not set" (inherit from global).
type LocalConfig struct {
	DefaultRefs []string   `toml:"default_refs"`
	Fetch       LocalFetch `toml:"fetch"`
}

// LocalFetch holds local fetch overrides
type LocalFetch struct {
	Prune      *bool `toml:"prune"`
	AllRemotes *bool `toml:"all_remotes"`
}

// LoadLocal reads a .gqc.toml from the given workspace directory.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	md, err := toml.Decode(string(data), &local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	if md.IsDefined("default_refs") {
		local.DefaultRefs = cleanRefNames(local.DefaultRefs)
		if len(local.DefaultRefs) == 0 {
			return nil, fmt.Errorf("invalid default_refs in %s: must contain at least one branch name", configFile)
		}
	}

	return &local, nil
}

// MergeLocal merges a workspace-local config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global

	if len(local.DefaultRefs) > 0 {
		merged.DefaultRefs = append([]string(nil), local.DefaultRefs...)
	}
	if local.Fetch.Prune != nil {
		merged.Fetch.Prune = *local.Fetch.Prune
	}
	if local.Fetch.AllRemotes != nil {
		merged.Fetch.AllRemotes = *local.Fetch.AllRemotes
	}

	return &merged
}
