package migrations

import (
	"io/fs"
	"sort"
	"testing"
)

func TestContentMigrationsEmbedded(t *testing.T) {
	files := embeddedFiles(t, ContentFS, "content")
	if files[0] != "001_content.sql" {
		t.Fatalf("expected first content migration 001_content.sql, got %s", files[0])
	}
}

func TestCharacterMigrationsEmbedded(t *testing.T) {
	files := embeddedFiles(t, CharactersFS, "characters")
	if files[0] != "001_characters.sql" {
		t.Fatalf("expected first character migration 001_characters.sql, got %s", files[0])
	}
	if len(files) < 2 {
		t.Fatalf("expected the phase index migration, got %v", files)
	}
}

func embeddedFiles(t *testing.T, fsys fs.FS, root string) []string {
	t.Helper()
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		t.Fatalf("read %s migrations: %v", root, err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected %s migrations to be embedded", root)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files
}
