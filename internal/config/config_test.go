package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if !slices.Equal(cfg.DefaultRefs, []string{"main", "master"}) {
		t.Errorf("DefaultRefs = %v, want [main master]", cfg.DefaultRefs)
	}
	if cfg.Backend != "cli" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "cli")
	}
	if !cfg.Fetch.Prune || !cfg.Fetch.AllRemotes {
		t.Errorf("Fetch = %+v, want prune and all_remotes enabled", cfg.Fetch)
	}

	// Mutating one default must not leak into the next.
	cfg.DefaultRefs[0] = "trunk"
	if Default().DefaultRefs[0] != "main" {
		t.Error("Default() shares the DefaultRefNames backing array")
	}
}

func TestLoadFrom_Nonexistent(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom(missing) error = %v", err)
	}
	if !slices.Equal(cfg.DefaultRefs, DefaultRefNames) {
		t.Errorf("DefaultRefs = %v, want %v", cfg.DefaultRefs, DefaultRefNames)
	}
}

func TestLoadFrom(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name: "full config",
			content: `
default_refs = ["develop", "main"]
workspace_dir = "/srv/acme"
backend = "native"
registry_path = "~/repos.json"
[fetch]
prune = false
all_remotes = false
`,
			check: func(t *testing.T, cfg Config) {
				if !slices.Equal(cfg.DefaultRefs, []string{"develop", "main"}) {
					t.Errorf("DefaultRefs = %v", cfg.DefaultRefs)
				}
				if cfg.WorkspaceDir != "/srv/acme" {
					t.Errorf("WorkspaceDir = %q", cfg.WorkspaceDir)
				}
				if cfg.Backend != "native" {
					t.Errorf("Backend = %q", cfg.Backend)
				}
				if want := filepath.Join(home, "repos.json"); cfg.RegistryPath != want {
					t.Errorf("RegistryPath = %q, want %q", cfg.RegistryPath, want)
				}
				if cfg.Fetch.Prune || cfg.Fetch.AllRemotes {
					t.Errorf("Fetch = %+v, want both disabled", cfg.Fetch)
				}
			},
		},
		{
			name:    "unset keys keep defaults",
			content: `workspace_dir = "~/src"`,
			check: func(t *testing.T, cfg Config) {
				if !slices.Equal(cfg.DefaultRefs, DefaultRefNames) {
					t.Errorf("DefaultRefs = %v, want defaults", cfg.DefaultRefs)
				}
				if want := filepath.Join(home, "src"); cfg.WorkspaceDir != want {
					t.Errorf("WorkspaceDir = %q, want %q", cfg.WorkspaceDir, want)
				}
				if !cfg.Fetch.Prune {
					t.Error("Fetch.Prune should default to true")
				}
			},
		},
		{
			name:    "default refs are cleaned",
			content: `default_refs = [" main ", "", "master", "main"]`,
			check: func(t *testing.T, cfg Config) {
				if !slices.Equal(cfg.DefaultRefs, []string{"main", "master"}) {
					t.Errorf("DefaultRefs = %v, want [main master]", cfg.DefaultRefs)
				}
			},
		},
		{
			name:    "empty default refs",
			content: `default_refs = []`,
			wantErr: "default_refs",
		},
		{
			name:    "invalid backend",
			content: `backend = "libgit2"`,
			wantErr: `invalid backend "libgit2"`,
		},
		{
			name:    "relative workspace dir",
			content: `workspace_dir = "src"`,
			wantErr: "workspace_dir must be absolute",
		},
		{
			name:    "invalid toml",
			content: `default_refs = [`,
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadFrom() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFrom() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv(EnvWorkspaceDir, "/env/workspace")
	t.Setenv(EnvDefaultRefs, "trunk, main")
	t.Setenv(EnvBackend, "native")

	cfg, err := LoadFrom(writeConfig(t, `workspace_dir = "/file/workspace"`))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.WorkspaceDir != "/env/workspace" {
		t.Errorf("WorkspaceDir = %q, want env override", cfg.WorkspaceDir)
	}
	if !slices.Equal(cfg.DefaultRefs, []string{"trunk", "main"}) {
		t.Errorf("DefaultRefs = %v, want [trunk main]", cfg.DefaultRefs)
	}
	if cfg.Backend != "native" {
		t.Errorf("Backend = %q, want native", cfg.Backend)
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~", false},
		{"~/src", false},
		{"/abs/path", false},
		{".", true},
		{"../src", true},
		{"src", true},
	}
	for _, tt := range tests {
		err := ValidatePath(tt.path, "workspace_dir")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestDefaultConfigContentParses(t *testing.T) {
	t.Parallel()

	var cfg Config
	if _, err := toml.Decode(DefaultConfigContent(), &cfg); err != nil {
		t.Fatalf("default config template does not parse: %v", err)
	}
	if !slices.Equal(cfg.DefaultRefs, DefaultRefNames) {
		t.Errorf("template default_refs = %v, want %v", cfg.DefaultRefs, DefaultRefNames)
	}
}

func TestInitAt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := InitAt(path, false); err != nil {
		t.Fatalf("InitAt() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := InitAt(path, false); err == nil {
		t.Error("InitAt() on existing file = nil, want error")
	}
	if err := InitAt(path, true); err != nil {
		t.Errorf("InitAt(force) error = %v", err)
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Backend: "native"}
		ctx := WithConfig(context.Background(), cfg)
		got := FromContext(ctx)
		if got != cfg {
			t.Error("FromContext did not return the stored config")
		}
	})

	t.Run("nil when not set", func(t *testing.T) {
		t.Parallel()
		if got := FromContext(context.Background()); got != nil {
			t.Errorf("FromContext on empty context = %v, want nil", got)
		}
	})
}

func TestWithWorkDir_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := WithWorkDir(context.Background(), "/custom/path")
		if got := WorkDirFromContext(ctx); got != "/custom/path" {
			t.Errorf("WorkDirFromContext = %q, want %q", got, "/custom/path")
		}
	})

	t.Run("fallback to getwd when empty", func(t *testing.T) {
		t.Parallel()
		ctx := WithWorkDir(context.Background(), "")
		wd, _ := os.Getwd()
		if got := WorkDirFromContext(ctx); got != wd {
			t.Errorf("WorkDirFromContext = %q, want %q (os.Getwd)", got, wd)
		}
	})
}
