package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	KeepAlive KeepAliveConfig
	Reminders ReminderConfig
	Images    ImageConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Client    ClientConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// StorageConfig selects the record store.
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// KeepAliveConfig controls the scheduled health ping. An empty URL disables it.
type KeepAliveConfig struct {
	URL              string
	Schedule         string
	Timeout          time.Duration
	FailureThreshold int
}

// ReminderConfig holds the reminder sweep schedule.
type ReminderConfig struct {
	CronSchedule string
	Timezone     string
}

// ImageConfig bounds photo uploads.
type ImageConfig struct {
	MaxDimension   int
	JPEGQuality    int
	MaxUploadBytes int64
}

// SheetsConfig contains configuration required to mirror records into Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the sheet mirror is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for outbound reminder notices.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	NotifyTo      string
}

// Enabled reports whether reminder notices should go out over WhatsApp.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.NotifyTo != ""
}

// ClientConfig is read by the command line client.
type ClientConfig struct {
	APIURL        string
	ViewStateFile string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("KEEPALIVE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse KEEPALIVE_TIMEOUT: %w", err)
	}
	threshold, err := getenvInt("KEEPALIVE_FAILURE_THRESHOLD", 3)
	if err != nil {
		return nil, err
	}
	maxDimension, err := getenvInt("IMAGE_MAX_DIMENSION", 800)
	if err != nil {
		return nil, err
	}
	quality, err := getenvInt("IMAGE_JPEG_QUALITY", 80)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getenvInt("IMAGE_MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:       getenvWithDefault("LOG_LEVEL", "info"),
			Development: os.Getenv("APP_ENV") == "development",
		},
		Storage: StorageConfig{
			Driver: getenvWithDefault("STORAGE_DRIVER", StorageMongoDB),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "hannan"),
		},
		KeepAlive: KeepAliveConfig{
			URL:              os.Getenv("KEEPALIVE_URL"),
			Schedule:         getenvWithDefault("KEEPALIVE_SCHEDULE", "@every 14m"),
			Timeout:          timeout,
			FailureThreshold: threshold,
		},
		Reminders: ReminderConfig{
			CronSchedule: getenvWithDefault("REMINDER_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Kampala"),
		},
		Images: ImageConfig{
			MaxDimension:   maxDimension,
			JPEGQuality:    quality,
			MaxUploadBytes: int64(maxUpload),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			NotifyTo:      os.Getenv("WHATSAPP_NOTIFY_TO"),
		},
		Client: ClientConfig{
			APIURL:        getenvWithDefault("HANNAN_API_URL", "http://localhost:8080"),
			ViewStateFile: getenvWithDefault("HANNAN_VIEWSTATE_FILE", defaultViewStateFile()),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Driver {
	case StorageMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not supported", c.Storage.Driver)
	}

	if c.KeepAlive.URL != "" {
		if c.KeepAlive.Schedule == "" {
			return errors.New("KEEPALIVE_SCHEDULE must be provided")
		}
		if c.KeepAlive.Timeout <= 0 {
			return errors.New("KEEPALIVE_TIMEOUT must be positive")
		}
		if c.KeepAlive.FailureThreshold < 1 {
			return errors.New("KEEPALIVE_FAILURE_THRESHOLD must be at least 1")
		}
	}

	if c.Reminders.CronSchedule == "" {
		return errors.New("REMINDER_CRON_SCHEDULE must be provided")
	}

	if c.Reminders.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Images.MaxDimension <= 0 {
		return errors.New("IMAGE_MAX_DIMENSION must be positive")
	}
	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		return errors.New("IMAGE_JPEG_QUALITY must be between 1 and 100")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.WhatsApp.NotifyTo != "" && (c.WhatsApp.AccessToken == "" || c.WhatsApp.PhoneNumberID == "") {
		return errors.New("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_NOTIFY_TO")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func defaultViewStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hannan-viewstate.yaml"
	}
	return filepath.Join(home, ".hannan", "viewstate.yaml")
}
