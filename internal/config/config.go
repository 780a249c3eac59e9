package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the toolkit configuration loaded from defaults, .env and the environment.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogOutput string `mapstructure:"log_output"`

	APIHost           string        `mapstructure:"api_host"`
	APIPathPrefix     string        `mapstructure:"api_path_prefix"`
	APIAccessToken    string        `mapstructure:"api_access_token" json:"-"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`

	SourcesFile string `mapstructure:"sources_file"`
	TablesDir   string `mapstructure:"tables_dir"`
	TableExt    string `mapstructure:"table_ext"`

	StorageType           string        `mapstructure:"storage_type"`
	BBoltPath             string        `mapstructure:"bbolt_path"`
	NameTTLSeconds        int64         `mapstructure:"name_ttl_seconds"`
	StorageCleanupSeconds int64         `mapstructure:"storage_cleanup_interval_seconds"`
	NameAttempts          int           `mapstructure:"name_attempts"`
	NameTTL               time.Duration `mapstructure:"-"`
	StorageCleanup        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and configs/.env.
func Load() (*Config, error) {
	return LoadFrom("configs/.env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()

	v.SetDefault("app_name", "fixturekit")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("api_host", "http://127.0.0.1:3030/")
	v.SetDefault("api_path_prefix", "api/")
	v.SetDefault("api_access_token", "")
	v.SetDefault("api_timeout_seconds", 30)
	v.SetDefault("sources_file", "./config/config.yaml")
	v.SetDefault("tables_dir", "./data/init_data")
	v.SetDefault("table_ext", ".py")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/names.db")
	v.SetDefault("name_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64(time.Hour/time.Second))
	v.SetDefault("name_attempts", 5)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.APIHost) == "" {
		return nil, fmt.Errorf("api_host is required")
	}
	if cfg.APITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.NameTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid name_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	if cfg.NameAttempts <= 0 {
		return nil, fmt.Errorf("invalid name_attempts (must be positive)")
	}
	cfg.NameTTL = time.Duration(cfg.NameTTLSeconds) * time.Second
	cfg.StorageCleanup = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
