package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

type AppConfig struct {
	APIKey    string `yaml:"api_key"`
	StationID string `yaml:"station_id"`
	BaseURL   string `yaml:"base_url"`

	// CacheTTL bounds how long one fetched day is served before refetching.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// MinHour drops observations before this local hour; nil keeps the whole day.
	MinHour *int `yaml:"min_hour"`

	// RecentWindow is the sample count of the compact view.
	RecentWindow int `yaml:"recent_window"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// RefreshInterval controls the cache warm-up job (0 = disabled).
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`

	Port string `yaml:"port"`
}

// Load reads an optional YAML file, then applies .env and environment overrides,
// then fills defaults.
func Load() (*AppConfig, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &AppConfig{
		BaseURL:         "https://api.weather.com",
		CacheTTL:        10 * time.Minute,
		RecentWindow:    10,
		HTTPTimeout:     15 * time.Second,
		RefreshInterval: 10 * time.Minute,
		Port:            "8080",
	}

	path := getenvDefault("CONFIG_PATH", defaultConfigPath)
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("WU_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("WU_STATION_ID"); v != "" {
		cfg.StationID = v
	}
	if v := os.Getenv("WU_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STATION_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.RecentWindow = getenvInt("RECENT_WINDOW", cfg.RecentWindow)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CACHE_TTL", &cfg.CacheTTL},
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"REFRESH_INTERVAL", &cfg.RefreshInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("MIN_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MIN_HOUR: %w", err)
		}
		cfg.MinHour = &h
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid STATION_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Validate checks that all required fields are set and in range.
func (c *AppConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("WU_API_KEY is required")
	}
	if c.StationID == "" {
		return fmt.Errorf("WU_STATION_ID is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.MinHour != nil && (*c.MinHour < 0 || *c.MinHour > 23) {
		return fmt.Errorf("MIN_HOUR must be between 0 and 23, got %d", *c.MinHour)
	}
	if c.RecentWindow < 0 {
		return fmt.Errorf("RECENT_WINDOW must not be negative")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
