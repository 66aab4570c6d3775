package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings backends accepted in settings_backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
	Region  string `toml:"region,omitempty"` // Bedrock only
}

type BreakerConfig struct {
	MaxFailures uint32 `toml:"max_failures"`
	OpenTimeout string `toml:"open_timeout"`
}

type UserConfig struct {
	Provider        ProviderConfig `toml:"provider"`
	RequestTimeout  string         `toml:"request_timeout"`
	SettingsBackend string         `toml:"settings_backend"`
	Breaker         BreakerConfig  `toml:"breaker"`
}

type Config struct {
	DataDirectory   string
	Provider        ProviderConfig
	RequestTimeout  time.Duration
	SettingsBackend string

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(u *UserConfig) error {
	if u.Provider.Type != "" {
		c.Provider = u.Provider
	}
	if u.SettingsBackend != "" {
		c.SettingsBackend = u.SettingsBackend
	}
	if u.Breaker.MaxFailures != 0 {
		c.BreakerMaxFailures = u.Breaker.MaxFailures
	}

	var err error
	if c.RequestTimeout, err = parseDuration(u.RequestTimeout, c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if c.BreakerOpenTimeout, err = parseDuration(u.Breaker.OpenTimeout, c.BreakerOpenTimeout); err != nil {
		return fmt.Errorf("invalid breaker.open_timeout: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("CHATTERM_PROVIDER"); p != "" {
		c.Provider.Type = p
	}
	if u := os.Getenv("CHATTERM_BASE_URL"); u != "" {
		c.Provider.BaseURL = u
	}
	if m := os.Getenv("CHATTERM_MODEL"); m != "" {
		c.Provider.Model = m
	}
	if key := os.Getenv("CHATTERM_API_KEY"); key != "" {
		c.Provider.APIKey = key
	} else if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" && c.Provider.APIKey == "" {
		c.Provider.APIKey = key
	}
	if dataDir := os.Getenv("CHATTERM_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func (c *Config) validate() error {
	switch c.SettingsBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown settings_backend %q (want %s, %s or %s)",
			c.SettingsBackend, BackendFile, BackendSQLite, BackendMemory)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func CheckDebug() bool {
	debug := os.Getenv("CHATTERM_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain prompts and replies)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (CHATTERM_DEBUG=%s) ===", os.Getenv("CHATTERM_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load builds the runtime configuration.
//
// Precedence, lowest first: built-in defaults, settings.toml, <data_dir>/config.toml,
// .env in the working directory, process environment.
func Load() (*Config, error) {
	// A missing .env is normal; variables already set in the environment win.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	// CHATTERM_DATA_DIR decides where the user config lives.
	if dataDir := os.Getenv("CHATTERM_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if err := cfg.applyUserConfig(userCfg); err != nil {
		return nil, fmt.Errorf("failed to apply user config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
