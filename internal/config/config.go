package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
)

// Environment variables that override the config file
const (
	EnvBaseURL  = "REPOTOGGLE_BASE_URL"
	EnvTimeout  = "REPOTOGGLE_TIMEOUT"
	EnvAttempts = "REPOTOGGLE_LOAD_ATTEMPTS"
	EnvLogLevel = "REPOTOGGLE_LOG_LEVEL"
	EnvLogFile  = "REPOTOGGLE_LOG_FILE"
)

// Config represents the application configuration
type Config struct {
	Version   int            `toml:"version"`
	BaseURL   string         `toml:"base_url"`
	UserAgent string         `toml:"user_agent"`
	HTTP      HTTPSettings   `toml:"http"`
	Load      LoadSettings   `toml:"load"`
	Import    ImportSettings `toml:"import"`
	UI        UISettings     `toml:"ui"`
	Log       LogSettings    `toml:"log"`
}

// HTTPSettings bounds every request made to the backend
type HTTPSettings struct {
	Timeout Duration `toml:"timeout"`
}

// LoadSettings controls the two list requests made at startup
type LoadSettings struct {
	Attempts   uint     `toml:"attempts"` // 1 means no retry
	RetryDelay Duration `toml:"retry_delay"`
}

// ImportSettings remembers which import sources were last chosen
type ImportSettings struct {
	Sources []domain.ImportSource `toml:"sources"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowCounts        bool `toml:"show_counts"`
	ConfirmDeactivate bool `toml:"confirm_deactivate"`
}

// LogSettings selects the log destination and verbosity
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Duration is a time.Duration written as "10s" in the config file
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "repotoggle", "config.toml")
}

// NewConfigService creates a config service for path; empty path means DefaultPath
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service that publishes load and save events
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath, BaseURL: cfg.BaseURL})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		BaseURL:   "http://localhost:8080",
		UserAgent: "repotoggle",
		HTTP: HTTPSettings{
			Timeout: Duration(10 * time.Second),
		},
		Load: LoadSettings{
			Attempts:   1,
			RetryDelay: Duration(500 * time.Millisecond),
		},
		Import: ImportSettings{
			Sources: []domain.ImportSource{domain.ImportUser, domain.ImportStarred},
		},
		UI: UISettings{
			ShowCounts: true,
		},
		Log: LogSettings{
			File:  "repotoggle.log",
			Level: "info",
		},
	}
}

// ReadEnv returns the process environment overlaid on the key/values of a .env file.
// A missing .env file is not an error; process variables win over the file.
func ReadEnv(dotenvPath string) (map[string]string, error) {
	env := map[string]string{}
	if dotenvPath != "" {
		fileEnv, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}
	for _, k := range []string{EnvBaseURL, EnvTimeout, EnvAttempts, EnvLogLevel, EnvLogFile} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides cfg with the REPOTOGGLE_* entries of env
func (c *Config) ApplyEnv(env map[string]string) error {
	if v, ok := env[EnvBaseURL]; ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := env[EnvTimeout]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.HTTP.Timeout = Duration(d)
	}
	if v, ok := env[EnvAttempts]; ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAttempts, err)
		}
		c.Load.Attempts = uint(n)
	}
	if v, ok := env[EnvLogLevel]; ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := env[EnvLogFile]; ok {
		c.Log.File = v
	}
	return nil
}

// Validate reports the first setting the client cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported base_url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", c.BaseURL)
	}
	if c.HTTP.Timeout.Std() <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout.Std())
	}
	if c.Load.Attempts < 1 {
		return fmt.Errorf("load.attempts must be at least 1")
	}
	for _, s := range c.Import.Sources {
		if !validSource(s) {
			return fmt.Errorf("unknown import source %q", s)
		}
	}
	return nil
}

func validSource(s domain.ImportSource) bool {
	for _, known := range domain.ImportSources {
		if s == known {
			return true
		}
	}
	return false
}
