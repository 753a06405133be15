package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jomsch/httpdir/internal/listing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	cfg.Dir = t.TempDir()

	s, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	want := listing.Options{Grouping: listing.DirectoriesFirst, Sort: listing.Alphabetical}
	if s.Listing != want {
		t.Errorf("Expected %+v, got %+v", want, s.Listing)
	}
	if s.Port != 8888 || !s.AllowUpload || s.MaxUploadBytes != 100<<20 {
		t.Errorf("Unexpected settings %+v", s)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "httpdir.yaml")
	doc := "dir: " + dir + "\nport: 9000\nshow_dotfiles: true\nfirst_group_by: files\nsort: ztoa\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.MaxUploadMB != 100 || !cfg.Gzip {
		t.Errorf("Expected defaults to survive, got %+v", cfg)
	}

	s, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	want := listing.Options{Grouping: listing.FilesFirst, Sort: listing.ReverseAlphabetical, Dotfiles: true}
	if s.Listing != want || s.Port != 9000 || s.Root != dir {
		t.Errorf("Unexpected settings %+v", s)
	}
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(path, &cfg); err == nil {
		t.Error("Expected error for malformed yaml")
	}
}

func TestValidateErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
		is     error
	}{
		{"grouping", func(c *Config) { c.GroupBy = "folders" }, ErrInvalidGrouping},
		{"sort", func(c *Config) { c.Sort = "random" }, ErrInvalidSort},
		{"port", func(c *Config) { c.Port = 0 }, nil},
		{"max upload", func(c *Config) { c.MaxUploadMB = -1 }, nil},
		{"missing dir", func(c *Config) { c.Dir = filepath.Join(dir, "nope") }, os.ErrNotExist},
		{"file as dir", func(c *Config) { c.Dir = file }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Dir = dir
			tt.modify(&cfg)
			_, err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
		})
	}
}
