package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://backup.example.com"
	cfg.HTTP.Timeout = Duration(3 * time.Second)
	cfg.Import.Sources = []domain.ImportSource{domain.ImportStarred}
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "3s")

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromPathKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("base_url = \"http://backup:9000\"\n[http]\ntimeout = \"2s\"\n"), 0644))

	cfg, err := NewConfigService(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backup:9000", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout.Std())
	assert.Equal(t, uint(1), cfg.Load.Attempts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromPathRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("base_url = [\n"), 0644))

	_, err := NewConfigService(path).LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadFromPathBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[http]\ntimeout = \"soon\"\n"), 0644))

	_, err := NewConfigService(path).LoadFromPath(path)
	require.Error(t, err)
}

func TestServiceWithBusPublishesEvents(t *testing.T) {
	bus := eventbus.New(logging.Nop())
	defer bus.Close()

	loaded := make(chan eventbus.DomainEvent, 1)
	saved := make(chan eventbus.DomainEvent, 1)
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { loaded <- e })
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) { saved <- e })

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(path, bus)
	cfg, err := svc.Load()
	require.NoError(t, err)
	require.NoError(t, svc.Save(cfg))

	select {
	case e := <-loaded:
		assert.Equal(t, path, e.(eventbus.ConfigLoadedEvent).Path)
	case <-time.After(time.Second):
		t.Fatal("no ConfigLoadedEvent")
	}
	select {
	case e := <-saved:
		assert.Equal(t, path, e.(eventbus.ConfigSavedEvent).Path)
	case <-time.After(time.Second):
		t.Fatal("no ConfigSavedEvent")
	}
}

func TestReadEnvMergesDotenv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("REPOTOGGLE_BASE_URL=http://from-file:1\nREPOTOGGLE_TIMEOUT=4s\n"), 0644))
	t.Setenv(EnvBaseURL, "http://from-process:2")

	env, err := ReadEnv(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "http://from-process:2", env[EnvBaseURL])
	assert.Equal(t, "4s", env[EnvTimeout])
}

func TestReadEnvMissingDotenv(t *testing.T) {
	_, err := ReadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(map[string]string{
		EnvBaseURL:  "http://override:8081",
		EnvTimeout:  "1500ms",
		EnvAttempts: "3",
		EnvLogLevel: "debug",
		EnvLogFile:  "",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://override:8081", cfg.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.HTTP.Timeout.Std())
	assert.Equal(t, uint(3), cfg.Load.Attempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "", cfg.Log.File)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	require.Error(t, DefaultConfig().ApplyEnv(map[string]string{EnvTimeout: "later"}))
	require.Error(t, DefaultConfig().ApplyEnv(map[string]string{EnvAttempts: "-1"}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "redis scheme", mutate: func(c *Config) { c.BaseURL = "redis://localhost" }, wantErr: "unsupported base_url scheme"},
		{name: "no host", mutate: func(c *Config) { c.BaseURL = "http://" }, wantErr: "has no host"},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTP.Timeout = 0 }, wantErr: "http.timeout"},
		{name: "zero attempts", mutate: func(c *Config) { c.Load.Attempts = 0 }, wantErr: "load.attempts"},
		{name: "unknown source", mutate: func(c *Config) { c.Import.Sources = []domain.ImportSource{"org"} }, wantErr: "unknown import source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
