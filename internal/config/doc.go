// Package config handles loading and validation of gqc configuration.
//
// Configuration is read from ~/.config/gqc/config.toml with environment
// variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - .gqc.toml in the workspace directory (default_refs and [fetch] only)
//   - GQC_WORKSPACE_DIR, GQC_DEFAULT_REFS (comma-separated), GQC_BACKEND
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - default_refs: fallback branches in priority order (default: ["main", "master"])
//   - workspace_dir: directory scanned for repositories when none are registered
//   - backend: "cli" (shell out to git) or "native" (go-git)
//   - registry_path: location of the repository registry
//   - [fetch] prune, all_remotes: options for "gqc fetch"
//
// The loaded config is passed explicitly to the workspace package; commands
// obtain it from the context via [FromContext].
package config
