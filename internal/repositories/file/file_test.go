package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chrisdamba/greengrocer/internal/repositories"
)

func TestKeyValueStore_MissingKey(t *testing.T) {
	s, err := NewKeyValueStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeyValueStore: %v", err)
	}
	if _, err := s.Get(context.Background(), "favorites"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestKeyValueStore_SetCreatesDirsAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "store")
	s, err := NewKeyValueStore(dir)
	if err != nil {
		t.Fatalf("NewKeyValueStore: %v", err)
	}

	if err := s.Set(ctx, "favorites", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "favorites", []byte(`[{"id":2}]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, err := s.Get(ctx, "favorites")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":2}]` {
		t.Fatalf("Get = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "favorites.json" {
		t.Fatalf("dir entries = %v, want only favorites.json", entries)
	}
}

func TestKeyValueStore_KeysAreSanitized(t *testing.T) {
	s, err := NewKeyValueStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeyValueStore: %v", err)
	}
	if got := filepath.Base(s.path("../etc/passwd")); got != ".._etc_passwd.json" {
		t.Fatalf("path base = %q", got)
	}
}

func TestNewKeyValueStore_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewKeyValueStore("~/.greengrocer")
	if err != nil {
		t.Fatalf("NewKeyValueStore: %v", err)
	}
	if s.Dir() != filepath.Join(home, ".greengrocer") {
		t.Fatalf("Dir = %q, want %q", s.Dir(), filepath.Join(home, ".greengrocer"))
	}
}

func TestNewKeyValueStore_EmptyDir(t *testing.T) {
	if _, err := NewKeyValueStore("  "); err == nil {
		t.Fatal("NewKeyValueStore with blank dir returned nil error")
	}
}
