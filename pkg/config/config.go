// Package config handles configuration for the exploration panel.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultServer is the exploration service the panel talks to when nothing is configured.
const DefaultServer = "http://127.0.0.1:8000"

// Config represents the panel configuration (explorer.yaml).
type Config struct {
	// Service
	Server  string   `yaml:"server"`  // Base URL of the exploration service
	Timeout Duration `yaml:"timeout"` // HTTP timeout per request

	// Execution settings
	ChromeDriverPath string `yaml:"chromeDriverPath"` // Seeds the ChromeDriver widget; empty sends no path

	// Local state
	LogFile   string `yaml:"logFile"`   // Log file path
	LogLevel  string `yaml:"logLevel"`  // debug, info, warn, error
	HistoryDB string `yaml:"historyDB"` // SQLite execution journal

	fromFile bool
}

// Duration is a time.Duration that reads "90s" style strings from YAML.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:           DefaultServer,
		Timeout:          Duration{120 * time.Second},
		LogFile:          GetLogPath(),
		LogLevel:         "info",
		HistoryDB:        GetHistoryDBPath(),
	}
}

// Load loads configuration from a file, filling unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromDir looks for explorer.yaml or explorer.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"explorer.yaml", "explorer.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return defaults
	return Default(), nil
}

// Resolve loads the explicit path if given, otherwise searches the working
// directory and then the home directory.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if cwd, err := os.Getwd(); err == nil {
		cfg, err := LoadFromDir(cwd)
		if err != nil {
			return nil, err
		}
		if cfg.loadedFromFile() {
			return cfg, nil
		}
	}
	return LoadFromDir(GetHome())
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server == "" {
		c.Server = def.Server
	}
	if c.Timeout.Duration <= 0 {
		c.Timeout = def.Timeout
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.HistoryDB == "" {
		c.HistoryDB = def.HistoryDB
	}
	c.fromFile = true
}

func (c *Config) loadedFromFile() bool {
	return c.fromFile
}
