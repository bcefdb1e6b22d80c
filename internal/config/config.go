package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pmboard/internal/adapters/webhook"
)

// DefaultListen is where the local JSON API binds
const DefaultListen = "127.0.0.1:8790"

// Forms are the externally hosted whole-project forms
type Forms struct {
	Add    string `mapstructure:"add"`
	Edit   string `mapstructure:"edit"`
	Delete string `mapstructure:"delete"`
}

// Config holds every runtime setting
type Config struct {
	BaseURL     string            `mapstructure:"base_url"`
	Endpoints   webhook.Endpoints `mapstructure:"endpoints"`
	Forms       Forms             `mapstructure:"forms"`
	HTTPTimeout time.Duration     `mapstructure:"http_timeout"`
	CachePath   string            `mapstructure:"cache_path"`
	Listen      string            `mapstructure:"listen"`
	CORSOrigins []string          `mapstructure:"cors_origins"`
	LogFile     string            `mapstructure:"log_file"`
	Debug       bool              `mapstructure:"debug"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     webhook.DefaultBaseURL,
		Endpoints:   webhook.DefaultEndpoints(),
		HTTPTimeout: webhook.DefaultTimeout,
		Listen:      DefaultListen,
		CORSOrigins: []string{"*"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// FilePath when empty), then .env in the working directory, then PMBOARD_*
// environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FilePath()
	}
	if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	applyEnv(cfg)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getenv("PMBOARD_BASE_URL", cfg.BaseURL)
	cfg.Forms.Add = getenv("PMBOARD_FORM_ADD", cfg.Forms.Add)
	cfg.Forms.Edit = getenv("PMBOARD_FORM_EDIT", cfg.Forms.Edit)
	cfg.Forms.Delete = getenv("PMBOARD_FORM_DELETE", cfg.Forms.Delete)
	cfg.HTTPTimeout = getenvDuration("PMBOARD_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.CachePath = getenv("PMBOARD_CACHE", cfg.CachePath)
	cfg.Listen = getenv("PMBOARD_LISTEN", cfg.Listen)
	cfg.LogFile = getenv("PMBOARD_LOG_FILE", cfg.LogFile)
	cfg.Debug = getenvBool("PMBOARD_DEBUG", cfg.Debug)
	if origins := os.Getenv("PMBOARD_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
}

// FilePath returns the config file location: PMBOARD_CONFIG, or
// config.yaml under the user config directory
func FilePath() string {
	if env := os.Getenv("PMBOARD_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pmboard", "config.yaml")
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getenvDuration accepts a Go duration ("90s") or whole seconds ("90")
func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
