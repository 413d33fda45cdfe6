package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "todoclient"
	DefaultConfigFileName = "config.toml"
	DefaultJournalName    = "journal.db"
	DefaultLogName        = "todo.log"
	DefaultEndpoint       = "http://localhost:3001"
	DefaultTimeoutSeconds = 10

	// Environment overrides. The bootstrap endpoint is only used for the
	// initial fetch; every interactive call goes to the API endpoint.
	EnvConfigPath        = "TODO_CONFIG"
	EnvAPIEndpoint       = "TODO_API_ENDPOINT"
	EnvBootstrapEndpoint = "TODO_BOOTSTRAP_ENDPOINT"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Search      string `toml:"search"`
	ClearSearch string `toml:"clear_search"`
	PrevPage    string `toml:"prev_page"`
	NextPage    string `toml:"next_page"`
	Reload      string `toml:"reload"`
}

type API struct {
	Endpoint          string `toml:"endpoint"`
	BootstrapEndpoint string `toml:"bootstrap_endpoint"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type Config struct {
	API         API    `toml:"api"`
	Log         Log    `toml:"log"`
	JournalPath string `toml:"journal_path"`
	Keys        Keymap `toml:"keys"`
}

// Timeout is the per-request deadline for API calls.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// BootstrapEndpoint falls back to the interactive endpoint when unset.
func (c Config) BootstrapEndpoint() string {
	if strings.TrimSpace(c.API.BootstrapEndpoint) != "" {
		return c.API.BootstrapEndpoint
	}
	return c.API.Endpoint
}

// ResolveConfigPath picks the config file: $TODO_CONFIG, then
// $XDG_CONFIG_HOME/todoclient, then ~/.config/todoclient.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative journal and log paths are resolved
// against the config directory, and environment overrides are applied last.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return finalize(path, cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = DefaultJournalName
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogName
	}
	if cfg.API.Endpoint == "" {
		cfg.API.Endpoint = DefaultEndpoint
	}
	return finalize(path, cfg), nil
}

func finalize(path string, cfg Config) Config {
	dir := filepath.Dir(path)
	cfg.JournalPath = resolve(dir, cfg.JournalPath)
	cfg.Log.File = resolve(dir, cfg.Log.File)
	if v := os.Getenv(EnvAPIEndpoint); v != "" {
		cfg.API.Endpoint = v
	}
	if v := os.Getenv(EnvBootstrapEndpoint); v != "" {
		cfg.API.BootstrapEndpoint = v
	}
	return cfg
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		API: API{
			Endpoint:       DefaultEndpoint,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			File:   DefaultLogName,
		},
		JournalPath: DefaultJournalName,
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Toggle:      " ",
			Delete:      "d",
			Confirm:     "enter",
			Cancel:      "esc",
			Search:      "/",
			ClearSearch: "x",
			PrevPage:    "h",
			NextPage:    "l",
			Reload:      "r",
		},
	}
}

// DefaultKeymap returns the bindings written on first launch.
func DefaultKeymap() Keymap {
	return defaultConfig().Keys
}
