package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "newsstand"

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Site       Site       `yaml:"site"`
	Catalog    Catalog    `yaml:"catalog"`
	Posts      Posts      `yaml:"posts"`
	Images     Images     `yaml:"images"`
	Pagination Pagination `yaml:"pagination"`
	Views      Views      `yaml:"views"`
	Reader     Reader     `yaml:"reader"`
	Search     Search     `yaml:"search"`
	Fetch      Fetch      `yaml:"fetch"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

type Site struct {
	Title string `yaml:"title"`
	Root  string `yaml:"root"`
}

type Catalog struct {
	Source string `yaml:"source"`
	Format string `yaml:"format"` // "json" or "feed"
}

type Posts struct {
	Dir string `yaml:"dir"`
}

type Images struct {
	Dir      string `yaml:"dir"`
	Fallback string `yaml:"fallback"`
}

type Pagination struct {
	PageSize int `yaml:"page_size"`
	MostRead int `yaml:"most_read"`
}

type Views struct {
	Seed     string `yaml:"seed"` // "baseline" or "random"
	Baseline int    `yaml:"baseline"`
	RandSeed uint64 `yaml:"rand_seed"`
}

type Reader struct {
	Engine   string `yaml:"engine"` // "basic" or "goldmark"
	Sanitize bool   `yaml:"sanitize"`
}

type Search struct {
	Debounce string `yaml:"debounce"`
}

type Fetch struct {
	Timeout string `yaml:"timeout"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newsstand.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// DataDir returns the XDG data directory for newsstand.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// ResolveConfigPath finds the config file following priority:
// explicit path > $XDG_CONFIG_HOME/newsstand/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newsstand init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg, err := parse(nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Site: Site{
			Title: "El Diario",
			Root:  ".",
		},
		Catalog: Catalog{
			Source: "data/posts.json",
			Format: "json",
		},
		Posts: Posts{Dir: "posts"},
		Images: Images{
			Dir:      "images",
			Fallback: "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=800&h=600&fit=crop",
		},
		Pagination: Pagination{PageSize: 6, MostRead: 5},
		Views:      Views{Seed: "baseline"},
		Reader:     Reader{Engine: "basic"},
		Search:     Search{Debounce: "300ms"},
		Fetch:      Fetch{Timeout: "15s"},
		Server:     Server{Port: 8000},
		Logging:    Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Pagination.PageSize < 1 {
		return fmt.Errorf("pagination.page_size must be positive, got %d", c.Pagination.PageSize)
	}
	switch c.Catalog.Format {
	case "json", "feed":
	default:
		return fmt.Errorf("catalog.format must be json or feed, got %q", c.Catalog.Format)
	}
	switch c.Views.Seed {
	case "baseline", "random":
	default:
		return fmt.Errorf("views.seed must be baseline or random, got %q", c.Views.Seed)
	}
	switch c.Reader.Engine {
	case "basic", "goldmark":
	default:
		return fmt.Errorf("reader.engine must be basic or goldmark, got %q", c.Reader.Engine)
	}
	if _, err := time.ParseDuration(c.Search.Debounce); err != nil {
		return fmt.Errorf("search.debounce: %w", err)
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DebounceDuration returns the search quiet period.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// FetchTimeout returns the HTTP fetch timeout; zero means no timeout.
func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// ResolveRef joins a site-relative reference onto the site root.
// Absolute http(s) URLs and absolute paths are returned unchanged.
func (c *Config) ResolveRef(ref string) string {
	if IsURL(ref) || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(c.Site.Root, ref)
}

// Verbose reports whether the configured log level asks for debug output.
func (c *Config) Verbose() bool {
	return strings.EqualFold(c.Logging.Level, "DEBUG")
}

// IsURL reports whether ref is an absolute http(s) URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
