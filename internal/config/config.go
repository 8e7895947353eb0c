package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bbct/bbct/internal/database"
	"github.com/bbct/bbct/internal/models"
)

// AppDir is the per-user directory holding the database, socket and logs
const AppDir = ".bbct"

const (
	DefaultDatabase      = database.DefaultName
	DefaultLogLevel      = "info"
	DefaultHTTPAddr      = "127.0.0.1:8420"
	DefaultEventDebounce = 100 * time.Millisecond
)

// Config represents the application configuration.
// Values come from defaults, then the YAML file, then the environment.
type Config struct {
	DataDir       string        `yaml:"data_dir" env:"BBCT_DATA_DIR"`
	Database      string        `yaml:"database" env:"BBCT_DATABASE"`
	SocketPath    string        `yaml:"socket_path" env:"BBCT_SOCKET"`
	LogLevel      string        `yaml:"log_level" env:"BBCT_LOG_LEVEL"`
	EventDebounce time.Duration `yaml:"event_debounce" env:"BBCT_EVENT_DEBOUNCE"`
	HTTPAddr      string        `yaml:"http_addr" env:"BBCT_HTTP_ADDR"`

	Conditions []string `yaml:"conditions" env:"BBCT_CONDITIONS" envSeparator:","`
	Positions  []string `yaml:"positions" env:"BBCT_POSITIONS" envSeparator:","`

	KeyMappings KeyMappings `yaml:"key_mappings"`
	Theme       Theme       `yaml:"theme"`
}

// Default returns a config with every value filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the user's config file, then .env in the working directory,
// then BBCT_* environment variables. A missing file is not an error.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		cfg := Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom is Load with an explicit config file path
func LoadFrom(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	loadThemeFile(&cfg)

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv loads .env without overriding the real environment and then
// parses BBCT_* variables on top of the file values
func (c *Config) applyEnv() error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// loadThemeFile merges the theme from BBCT_THEME_FILE if set
func loadThemeFile(cfg *Config) {
	themeFile := os.Getenv("BBCT_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme Theme `yaml:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		cfg.Theme.MergeFrom(themeConfig.Theme)
	}
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config as YAML to configPath
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Path returns the path to the config file
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "bbct", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "bbct", "config.yaml"), nil
}

// DatabasePath is where the named database lives on disk
func (c *Config) DatabasePath() string {
	return database.PathFor(c.DataDir, c.Database)
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(c.DataDir, "bbct.sock")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.EventDebounce <= 0 {
		c.EventDebounce = DefaultEventDebounce
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if len(c.Conditions) == 0 {
		c.Conditions = slices.Clone(models.DefaultConditions)
	}
	if len(c.Positions) == 0 {
		c.Positions = slices.Clone(models.DefaultPositions)
	}
	c.KeyMappings.applyDefaults()
	c.Theme.ApplyDefaults()
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return AppDir
	}
	return filepath.Join(homeDir, AppDir)
}
