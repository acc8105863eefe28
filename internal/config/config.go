package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/hotnews/internal/hotnews"
)

// DevOrigin is the fixed local development origin of the hot-news backend.
const DevOrigin = "http://localhost:8765"

// Config is the persistent application configuration.
type Config struct {
	// Panel holds the hot-news panel's own options.
	Panel PanelConfig `json:"panel" yaml:"panel"`

	// Dev points the panel at DevOrigin regardless of Panel.APIBase.
	Dev bool `json:"dev" yaml:"dev"`

	// DashboardOrigin stands in for the page origin: an empty API base is
	// resolved against it.
	DashboardOrigin string `json:"dashboard_origin" yaml:"dashboard_origin"`

	// Timeout for hot-news requests. Zero leaves it to the transport.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// DataDir holds the history database and logs.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LogLevel for the diagnostic log: debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Trace records every UI message in the event log.
	Trace bool `json:"trace,omitempty" yaml:"trace,omitempty"`

	DevServer DevServerConfig `json:"dev_server" yaml:"dev_server"`

	path string
}

// PanelConfig is the externalized panel configuration.
type PanelConfig struct {
	Sources   []hotnews.SourceOption `json:"sources" yaml:"sources"`
	ItemCount int                    `json:"item_count" yaml:"item_count"`
	APIBase   string                 `json:"api_base" yaml:"api_base"`
}

// DevServerConfig configures cmd/hotnews-devserver.
type DevServerConfig struct {
	Addr          string  `json:"addr" yaml:"addr"`
	Fixture       string  `json:"fixture,omitempty" yaml:"fixture,omitempty"` // YAML catalog; empty uses the embedded one
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`
	Burst         int     `json:"burst" yaml:"burst"`
}

// Duration decodes "30s"-style strings in both JSON and YAML.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Panel: PanelConfig{
			Sources:   hotnews.DefaultSources(),
			ItemCount: hotnews.DefaultItemCount,
			APIBase:   "",
		},
		DashboardOrigin: DevOrigin,
		DataDir:         defaultDataDir(),
		LogLevel:        "info",
		DevServer: DevServerConfig{
			Addr:          ":8765",
			RatePerSecond: 5,
			Burst:         10,
		},
	}
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hotnews")
}

// ConfigPath returns the config file location: HOTNEWS_CONFIG if set,
// otherwise ~/.hotnews/config.json.
func ConfigPath() string {
	if p := os.Getenv("HOTNEWS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(defaultDataDir(), "config.json")
}

// Load reads the config at path. A missing file yields defaults. Files
// ending in .yaml or .yml are YAML, anything else JSON. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// fillDefaults restores zero values a partial file left behind.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if len(c.Panel.Sources) == 0 {
		c.Panel.Sources = def.Panel.Sources
	}
	if c.Panel.ItemCount == 0 {
		c.Panel.ItemCount = def.Panel.ItemCount
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.DevServer.Addr == "" {
		c.DevServer.Addr = def.DevServer.Addr
	}
}

// ApplyEnv applies HOTNEWS_* overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("HOTNEWS_DEV"); v != "" && v != "0" && v != "false" {
		c.Dev = true
	}
	if v, ok := os.LookupEnv("HOTNEWS_API_BASE"); ok {
		c.Panel.APIBase = v
	}
	if v := os.Getenv("HOTNEWS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("HOTNEWS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if os.Getenv("HOTNEWS_TRACE") != "" {
		c.Trace = true
	}
}

// Validate checks the panel options.
func (c *Config) Validate() error {
	if len(c.Panel.Sources) == 0 {
		return errors.New("config: panel.sources is empty")
	}
	if c.Panel.Sources[0].ID != hotnews.AllSourceID {
		return fmt.Errorf("config: first source must be %q, got %q", hotnews.AllSourceID, c.Panel.Sources[0].ID)
	}
	seen := make(map[string]bool, len(c.Panel.Sources))
	for _, s := range c.Panel.Sources {
		if s.ID == "" {
			return errors.New("config: source with empty id")
		}
		if seen[s.ID] {
			return fmt.Errorf("config: duplicate source id %q", s.ID)
		}
		seen[s.ID] = true
	}
	if c.Panel.ItemCount <= 0 {
		return fmt.Errorf("config: item_count must be positive, got %d", c.Panel.ItemCount)
	}
	return nil
}

// ResolveBase returns the base URL the fetcher should use.
// Dev mode always wins; otherwise an empty API base means same-origin.
func (c *Config) ResolveBase() string {
	if c.Dev {
		return DevOrigin
	}
	if c.Panel.APIBase != "" {
		return c.Panel.APIBase
	}
	return c.DashboardOrigin
}

// DBPath is the history database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "hotnews.db")
}

// EventLogPath is the JSONL event log location.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.DataDir, "events.jsonl")
}

// Save writes the config as JSON to the path it was loaded from, or
// ConfigPath when it was never loaded.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
