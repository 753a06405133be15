package listing

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "zeta"), []byte("z"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "Alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	l := New(Options{Grouping: DirectoriesFirst, Sort: Alphabetical})
	if err := Collect(context.Background(), dir, l); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if got, want := names(l), []string{"Alpha", "zeta"}; !slices.Equal(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	if !l.Get(0).IsDir {
		t.Error("Expected Alpha to be a directory")
	}
	if l.Get(1).IsDir || l.Get(1).Size != 1 {
		t.Errorf("Expected zeta to be a 1 byte file, got %+v", l.Get(1))
	}
}

func TestCollectSymlinks(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "target"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "target"), filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A dangling link does not abort the listing: the entry itself was read
	// fine, only its target is gone, so it is shown as a file.
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling")); err != nil {
		t.Fatal(err)
	}

	l := New(Options{Grouping: DirectoriesFirst, Sort: Alphabetical})
	if err := Collect(context.Background(), dir, l); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if got, want := names(l), []string{"link", "target", "dangling"}; !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestCollectMissingDir(t *testing.T) {
	l := New(Options{})
	err := Collect(context.Background(), filepath.Join(t.TempDir(), "nope"), l)
	if err == nil {
		t.Fatal("Expected error for missing directory")
	}
	if l.Len() != 0 {
		t.Errorf("Expected no entries, got %d", l.Len())
	}
}

func TestCollectCancelled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(Options{})
	if err := Collect(ctx, dir, l); err == nil {
		t.Error("Expected error for cancelled context")
	}
	if l.Len() != 0 {
		t.Errorf("Expected no entries after failed collect, got %d", l.Len())
	}
}
