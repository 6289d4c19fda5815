package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FetchConfig holds fetch-related configuration
type FetchConfig struct {
	Prune      bool `toml:"prune" json:"prune"`             // drop stale remote-tracking refs
	AllRemotes bool `toml:"all_remotes" json:"all_remotes"` // fetch every remote, not only origin
}

// Config holds the gqc configuration
type Config struct {
	// DefaultRefs are the fallback branch names in priority order.
	// A repository lacking the requested ref is moved to the first of these
	// it has. They are never listed as selectable refs themselves.
	DefaultRefs  []string    `toml:"default_refs" json:"default_refs"`
	WorkspaceDir string      `toml:"workspace_dir" json:"workspace_dir,omitempty"`
	Backend      string      `toml:"backend" json:"backend"`
	RegistryPath string      `toml:"registry_path" json:"registry_path,omitempty"`
	Fetch        FetchConfig `toml:"fetch" json:"fetch"`
}

// DefaultRefNames is used when no default_refs are configured.
var DefaultRefNames = []string{"main", "master"}

// Environment variables overriding config file settings.
const (
	EnvWorkspaceDir = "GQC_WORKSPACE_DIR"
	EnvDefaultRefs  = "GQC_DEFAULT_REFS"
	EnvBackend      = "GQC_BACKEND"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		DefaultRefs: append([]string(nil), DefaultRefNames...),
		Backend:     "cli",
		Fetch: FetchConfig{
			Prune:      true,
			AllRemotes: true,
		},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the global config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gqc", "config.toml"), nil
}

// Load reads config from ~/.config/gqc/config.toml and applies environment overrides.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path and applies environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	default:
		// Decoding into the defaults keeps unset keys at their default values.
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.normalize(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnv overrides config values from GQC_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvWorkspaceDir); v != "" {
		cfg.WorkspaceDir = v
	}
	if v := os.Getenv(EnvDefaultRefs); v != "" {
		cfg.DefaultRefs = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
}

// normalize validates cfg and expands paths in place.
func (c *Config) normalize() error {
	c.DefaultRefs = cleanRefNames(c.DefaultRefs)
	if len(c.DefaultRefs) == 0 {
		return errors.New("default_refs must contain at least one branch name")
	}

	if err := validateEnum(c.Backend, "backend", ValidBackends); err != nil {
		return err
	}

	if err := ValidatePath(c.WorkspaceDir, "workspace_dir"); err != nil {
		return err
	}
	if err := ValidatePath(c.RegistryPath, "registry_path"); err != nil {
		return err
	}

	// Expand ~ (shell doesn't expand in config files)
	var err error
	if c.WorkspaceDir, err = expandPath(c.WorkspaceDir); err != nil {
		return fmt.Errorf("expand workspace_dir: %w", err)
	}
	if c.RegistryPath, err = expandPath(c.RegistryPath); err != nil {
		return fmt.Errorf("expand registry_path: %w", err)
	}
	return nil
}

// cleanRefNames trims names and drops empty entries and duplicates,
// keeping the first occurrence so priority order is preserved.
func cleanRefNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

const defaultConfig = `# gqc configuration

# Fallback branches in priority order.
# When a repository lacks the ref you check out, gqc moves it to the first
# of these it has. Repositories with none of them are left untouched.
# These names are never listed as selectable refs.
default_refs = ["main", "master"]

# Directory holding the workspace repositories (direct children are scanned).
# Used when no repositories are registered with "gqc repo add".
# Must be an absolute path or start with ~
# workspace_dir = "~/src/acme"

# Git implementation: "cli" shells out to git, "native" uses go-git.
backend = "cli"

# Optional: location of the repository registry (default ~/.gqc/repos.json)
# registry_path = "~/.gqc/repos.json"

[fetch]
prune = true        # drop remote-tracking refs deleted upstream
all_remotes = true  # fetch every remote, not only origin

# A workspace directory may contain a .gqc.toml overriding default_refs
# and [fetch] for that workspace only.
`

// DefaultConfigContent returns the commented default configuration file content.
func DefaultConfigContent() string {
	return defaultConfig
}

// InitAt writes the default config file to path.
func InitAt(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
