package sqlite

import (
	"path/filepath"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestContentStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.sqlite")
	store, err := OpenContent(path)
	if err != nil {
		t.Fatalf("open content store: %v", err)
	}
	store.now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close content store: %v", err)
		}
	})
	return store
}

func openTestCharacterStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "characters.sqlite")
	store, err := OpenCharacters(path)
	if err != nil {
		t.Fatalf("open character store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close character store: %v", err)
		}
	})
	return store
}
