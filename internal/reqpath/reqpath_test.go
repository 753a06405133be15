package reqpath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		root, url string
		want      string
	}{
		{"/srv/", "/a/b", "/srv/a/b/"},
		{"/srv/", "/a/b/", "/srv/a/b/"},
		{"/srv/", "/", "/srv/"},
		{"/srv", "/a", "/srv/a/"},
		{"./", "/docs", "./docs/"},
		{"./", "", "./"},
		{"/srv/", "/a..b/c", "/srv/a..b/c/"},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.root, tt.url)
		if err != nil {
			t.Errorf("Resolve(%q, %q) error: %v", tt.root, tt.url, err)
			continue
		}
		if got.DirPath != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, expected %q", tt.root, tt.url, got.DirPath, tt.want)
		}
	}
}

func TestResolveKeepsURLPath(t *testing.T) {
	got, err := Resolve("/srv/", "/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if got.URLPath != "/a/b" || got.IsRoot() {
		t.Errorf("Unexpected request path %+v", got)
	}
	root, _ := Resolve("/srv/", "/")
	if !root.IsRoot() {
		t.Error("Expected / to be the root")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	for _, url := range []string{"/..", "/../etc", "/a/../../etc", "/a/..", `/a\..\b`, "/a\x00b"} {
		_, err := Resolve("/srv/", url)
		if !errors.Is(err, ErrTraversal) {
			t.Errorf("Resolve(%q): expected ErrTraversal, got %v", url, err)
		}
	}
}

func TestIsDir(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := map[string]bool{
		"/":         true,
		"/sub":      true,
		"/sub/":     true,
		"/file.txt": false,
		"/missing":  false,
	}
	for url, want := range tests {
		p, err := Resolve(root, url)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.IsDir(); got != want {
			t.Errorf("IsDir(%q) = %v, expected %v", url, got, want)
		}
	}
}
