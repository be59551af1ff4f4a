package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source is one community feed the scanner mines for opportunities.
type Source struct {
	Name     string `yaml:"name"`
	Group    string `yaml:"group"` // facet value, e.g. "r/freelance"
	URL      string `yaml:"url"`
	Platform string `yaml:"platform,omitempty"`
	Audience string `yaml:"audience,omitempty"`
	Vertical string `yaml:"vertical,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

// Config is layered: embedded defaults, then the user's YAML file, then
// IDEAFORGE_* environment variables.
type Config struct {
	APIURL       string   `yaml:"api_url" env:"IDEAFORGE_API_URL"`
	ListenAddr   string   `yaml:"listen_addr" env:"IDEAFORGE_LISTEN_ADDR"`
	PageSize     int      `yaml:"page_size" env:"IDEAFORGE_PAGE_SIZE"`
	DebounceMS   int      `yaml:"debounce_ms" env:"IDEAFORGE_DEBOUNCE_MS"`
	Retention    string   `yaml:"retention"`
	ScanInterval string   `yaml:"scan_interval"`
	Sources      []Source `yaml:"sources"`
}

func (c *Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func (c *Config) RetentionDuration() time.Duration {
	d, err := ParseAge(c.Retention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

func (c *Config) ScanIntervalDuration() time.Duration {
	d, err := ParseAge(c.ScanInterval)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// ParseAge parses a duration, additionally supporting an "Nd" day suffix.
func ParseAge(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ideaforge", "config.yaml")
}

func DataPath() string {
	return filepath.Join(xdg.DataHome, "ideaforge", "ideaforge.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load resolves the layered configuration. A missing user file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}
	return cfg, nil
}
