package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the client needs to talk to the backend.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`

	// Backend
	APIBaseURL  string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	// Listing defaults
	PageSize         int           `mapstructure:"PAGE_SIZE"`
	DebounceInterval time.Duration `mapstructure:"DEBOUNCE_INTERVAL"`

	// Session persistence
	SessionFile string `mapstructure:"SESSION_FILE"`

	// Outbound request throttle
	RequestsPerMin int `mapstructure:"REQUESTS_PER_MIN"`
	BurstSize      int `mapstructure:"BURST_SIZE"`

	// Logging
	LogFile string `mapstructure:"LOG_FILE"`
}

// LoadConfig reads configuration from the environment, with an optional
// .env file in path. A missing config file is fine; every key has a
// working default.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("HTTP_TIMEOUT", 15*time.Second)
	viper.SetDefault("PAGE_SIZE", 10)
	viper.SetDefault("DEBOUNCE_INTERVAL", 400*time.Millisecond)
	viper.SetDefault("SESSION_FILE", defaultSessionFile())
	viper.SetDefault("REQUESTS_PER_MIN", 120)
	viper.SetDefault("BURST_SIZE", 10)
	viper.SetDefault("LOG_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "task-manager", "session.json")
	}
	return filepath.Join(home, ".task-manager", "session.json")
}
