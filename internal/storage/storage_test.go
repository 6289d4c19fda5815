package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	if err := SaveJSON(path, record{Name: "api", Count: 2}); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	var loaded record
	if err := LoadJSON(path, &loaded); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded != (record{Name: "api", Count: 2}) {
		t.Errorf("loaded %+v", loaded)
	}

	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestSaveJSON_Overwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	for i := range 3 {
		if err := SaveJSON(path, record{Count: i}); err != nil {
			t.Fatalf("SaveJSON %d failed: %v", i, err)
		}
	}

	var loaded record
	if err := LoadJSON(path, &loaded); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded.Count != 2 {
		t.Errorf("Count = %d, want 2", loaded.Count)
	}
}

func TestSaveJSON_MarshalError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := SaveJSON(path, map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected marshal error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file written despite marshal error: %v", err)
	}
}

func TestLoadJSON_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var dest record
	if err := LoadJSON(filepath.Join(dir, "missing.json"), &dest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadJSON(invalid, &dest); err == nil {
		t.Error("expected parse error")
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if filepath.Base(dir) != ".gqc" {
		t.Errorf("Dir() = %q, want base .gqc", dir)
	}
}
