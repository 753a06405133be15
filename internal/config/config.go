// Package config holds the settings the server is started with.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jomsch/httpdir/internal/listing"
)

var (
	ErrInvalidGrouping = errors.New("invalid grouping")
	ErrInvalidSort     = errors.New("invalid sort")
)

// Config is the file and flag facing configuration. Grouping and Sort keep
// their command line spelling; Validate turns them into policies.
type Config struct {
	Dir          string `yaml:"dir"`
	Port         int    `yaml:"port"`
	ShowDotfiles bool   `yaml:"show_dotfiles"`
	GroupBy      string `yaml:"first_group_by"`
	Sort         string `yaml:"sort"`
	ReadOnly     bool   `yaml:"read_only"`
	MaxUploadMB  int64  `yaml:"max_upload_mb"`
	Template     string `yaml:"template"`
	Gzip         bool   `yaml:"gzip"`
	Quiet        bool   `yaml:"quiet"`
	LogJSON      bool   `yaml:"log_json"`
}

func Default() Config {
	return Config{
		Dir:         "./",
		Port:        8888,
		GroupBy:     "directories",
		Sort:        "atoz",
		MaxUploadMB: 100,
		Gzip:        true,
	}
}

// LoadFile overlays the YAML document at path onto cfg. Keys missing from
// the file keep their current value.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Settings is the validated, immutable form of Config shared by all
// requests.
type Settings struct {
	Root           string
	Port           int
	Listing        listing.Options
	AllowUpload    bool
	MaxUploadBytes int64
	Template       string
	Gzip           bool
}

// Validate checks cfg and derives Settings from it.
func (cfg Config) Validate() (Settings, error) {
	grouping, err := listing.ParseGrouping(cfg.GroupBy)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidGrouping, err)
	}
	sort, err := listing.ParseSort(cfg.Sort)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSort, err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Settings{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.MaxUploadMB < 0 {
		return Settings{}, fmt.Errorf("invalid max upload size %d MB", cfg.MaxUploadMB)
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return Settings{}, fmt.Errorf("directory %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return Settings{}, fmt.Errorf("%s is not a directory", cfg.Dir)
	}

	return Settings{
		Root: cfg.Dir,
		Port: cfg.Port,
		Listing: listing.Options{
			Grouping: grouping,
			Sort:     sort,
			Dotfiles: cfg.ShowDotfiles,
		},
		AllowUpload:    !cfg.ReadOnly,
		MaxUploadBytes: cfg.MaxUploadMB * 1024 * 1024,
		Template:       cfg.Template,
		Gzip:           cfg.Gzip,
	}, nil
}
