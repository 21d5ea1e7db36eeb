package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName       string   `mapstructure:"app_name"`
	Env           string   `mapstructure:"app_env"`
	LogLevel      string   `mapstructure:"log_level"`
	BaseURL       string   `mapstructure:"base_url"`
	AuthToken     string   `mapstructure:"auth_token"`
	Serialization string   `mapstructure:"serialization"`
	ResourcesRaw  string   `mapstructure:"resources"`
	Resources     []string `mapstructure:"-"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	PollIntervalSeconds   int64         `mapstructure:"poll_interval"`
	FrameIntervalMillis   int64         `mapstructure:"frame_interval_ms"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	PollInterval          time.Duration `mapstructure:"-"`
	FrameInterval         time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// HasAuthToken reports whether a bearer token was configured.
func (c *Config) HasAuthToken() bool {
	return c != nil && strings.TrimSpace(c.AuthToken) != ""
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "branch-sync")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "")
	v.SetDefault("auth_token", "")
	v.SetDefault("serialization", "json")
	v.SetDefault("resources", "")
	v.SetDefault("request_timeout_seconds", 0) // transport default
	v.SetDefault("poll_interval", 60)          // seconds
	v.SetDefault("frame_interval_ms", 16)
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/branches.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((time.Hour)/time.Second))
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if u, err := url.Parse(cfg.BaseURL); err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("invalid base_url %q (must be an absolute URI)", cfg.BaseURL)
	}

	cfg.Resources = splitResources(cfg.ResourcesRaw)

	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must not be negative)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.FrameIntervalMillis <= 0 {
		return nil, fmt.Errorf("invalid frame_interval_ms (must be positive milliseconds)")
	}
	cfg.FrameInterval = time.Duration(cfg.FrameIntervalMillis) * time.Millisecond

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// splitResources parses a comma-separated resource list. Resource paths are
// kept verbatim apart from surrounding whitespace.
func splitResources(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
