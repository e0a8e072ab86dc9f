package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenStore_EmptyPathDisablesPersistence(t *testing.T) {
	store, err := openStore("")
	if err != nil {
		t.Fatalf("Empty path must not be an error: %v", err)
	}
	if store != nil {
		t.Error("Empty path must disable the store, not open one")
	}
}

func TestOpenStore_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	store, err := openStore(path)
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected database file at %s: %v", path, err)
	}
}
