package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	Port        string        `mapstructure:"PORT"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	LogDev      bool          `mapstructure:"LOG_DEV"`
	GinMode     string        `mapstructure:"GIN_MODE"`
}

// ErrEnvFileMissing is returned alongside a usable Config when no .env file
// was found and only the process environment was read.
var ErrEnvFileMissing = errors.New(".env file not found, loading from environment variables")

var defaults = map[string]any{
	"DATABASE_URL": "",
	"JWT_SECRET":   "",
	"PORT":         "8080",
	"TOKEN_TTL":    time.Hour,
	"LOG_LEVEL":    "info",
	"LOG_DEV":      false,
	"GIN_MODE":     "release",
}

// Load reads configuration from a .env file in dir and from environment
// variables. Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Unmarshal only sees keys viper knows about, so register every key
	// before AutomaticEnv can pick it up.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var fileErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		fileErr = ErrEnvFileMissing
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, fileErr
}

// Validate reports the required settings that are missing. The server must
// not start without a signing secret and a database connection string.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DatabaseURL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
