package media_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"subburn/internal/media"
	"subburn/internal/services"
)

func TestResolveFindsStoredUpload(t *testing.T) {
	dir := t.TempDir()
	stored := media.StoredName("vid-123", "clip.mp4")
	if err := os.WriteFile(filepath.Join(dir, stored), []byte("data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	resolver := media.NewResolver(dir)
	path, err := resolver.Resolve("vid-123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(path) != "vid-123_clip.mp4" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestResolveUnknownIDIsNotFound(t *testing.T) {
	resolver := media.NewResolver(t.TempDir())
	_, err := resolver.Resolve("missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want not-found, got %v", err)
	}
}

func TestStoredNameFlattensPaths(t *testing.T) {
	if got := media.StoredName("id", "../../etc/passwd"); got != "id_passwd" {
		t.Fatalf("StoredName should strip directories, got %q", got)
	}
	if got := media.StoredName("id", ""); got != "id_input" {
		t.Fatalf("empty name fallback, got %q", got)
	}
}
