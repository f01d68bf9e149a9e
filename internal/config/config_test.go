package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("KEEPALIVE_URL", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("WHATSAPP_NOTIFY_TO", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMongoDB, cfg.Storage.Driver)
	assert.Equal(t, "@every 14m", cfg.KeepAlive.Schedule)
	assert.Equal(t, 10*time.Second, cfg.KeepAlive.Timeout)
	assert.Equal(t, 3, cfg.KeepAlive.FailureThreshold)
	assert.Equal(t, 800, cfg.Images.MaxDimension)
	assert.Equal(t, 80, cfg.Images.JPEGQuality)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

// unsetenv clears keys for the test; godotenv never overrides variables that are set, even empty ones.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	unsetenv(t, "STORAGE_DRIVER", "KEEPALIVE_URL", "KEEPALIVE_TIMEOUT")
	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORAGE_DRIVER=memory\nKEEPALIVE_URL=https://hannan.example.com/health\nKEEPALIVE_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "https://hannan.example.com/health", cfg.KeepAlive.URL)
	assert.Equal(t, 5*time.Second, cfg.KeepAlive.Timeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Storage:   StorageConfig{Driver: StorageMemory},
			Reminders: ReminderConfig{CronSchedule: "0 7 * * *", Timezone: "Africa/Kampala"},
			Images:    ImageConfig{MaxDimension: 800, JPEGQuality: 80},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"unknown driver":     func(c *Config) { c.Storage.Driver = "postgres" },
		"half sheets config": func(c *Config) { c.Sheets.SpreadsheetID = "sheet" },
		"quality range":      func(c *Config) { c.Images.JPEGQuality = 120 },
		"whatsapp without token": func(c *Config) {
			c.WhatsApp.NotifyTo = "256700000000"
		},
		"keepalive threshold": func(c *Config) {
			c.KeepAlive = KeepAliveConfig{URL: "http://x/health", Schedule: "@every 14m", Timeout: time.Second}
		},
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
