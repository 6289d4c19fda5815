// Package storage provides atomic JSON files and advisory locks for the
// state gqc keeps under ~/.gqc/.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns ~/.gqc without creating it.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".gqc"), nil
}

// SaveJSON writes data as indented JSON to path. The parent directory is
// created as needed and the file is replaced by rename, so readers never
// observe a partial write.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// LoadJSON reads JSON from path into dest.
// A missing file yields an error matching os.ErrNotExist.
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
