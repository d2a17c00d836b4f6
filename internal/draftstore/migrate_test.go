package draftstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestStore_Migrate(t *testing.T) {
	root := t.TempDir()
	canonical := filepath.Join(root, "episode_drafts")
	legacyA := filepath.Join(root, "logs", "episode_drafts")
	legacyB := filepath.Join(root, "scripts", "logs", "episode_drafts")

	writeRawFile(t, canonical, "shared.json", []byte(`{"full_title": "canonical"}`))
	writeRawFile(t, legacyA, "shared.json", []byte(`{"full_title": "legacy"}`))
	writeRawFile(t, legacyA, "only-a.json", []byte(`{"full_title": "a"}`))
	writeRawFile(t, legacyB, "only-b.json", []byte(`{"full_title": "b"}`))
	writeRawFile(t, legacyB, "keep.txt", []byte("not a draft"))

	store := New(canonical, zerolog.Nop(), WithLegacyDirs(legacyA, legacyB, canonical))
	stats := store.Migrate()

	if stats.Moved != 2 || stats.Discarded != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}

	loaded, err := store.Load("shared")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.FullTitle != "canonical" {
		t.Errorf("collision kept %q, want canonical copy", loaded.FullTitle)
	}
	for _, id := range []string{"only-a", "only-b"} {
		if _, err := store.Load(id); err != nil {
			t.Errorf("Load(%q) error = %v", id, err)
		}
	}

	if _, err := os.Stat(legacyA); !os.IsNotExist(err) {
		t.Errorf("empty legacy dir should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(legacyB, "keep.txt")); err != nil {
		t.Errorf("non-draft file should remain: %v", err)
	}
}

func TestStore_MigrateNoLegacy(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "episode_drafts"), zerolog.Nop(),
		WithLegacyDirs(filepath.Join(t.TempDir(), "missing")))
	if stats := store.Migrate(); stats != (MigrateStats{}) {
		t.Errorf("stats = %+v", stats)
	}
}
