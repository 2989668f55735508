package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIURL is the backend address used when none is configured
const DefaultAPIURL = "http://localhost:5001/api"

// Load loads the configuration from file and FILMDESK_* environment
// variables. Without an explicit path a missing config file is not an
// error; the defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("filmdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".filmdesk"))
		}

		// Check /etc
		v.AddConfigPath("/etc/filmdesk/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.page_size", 20)

	// View defaults
	v.SetDefault("ui.message_ttl", "3s")
	v.SetDefault("ui.redirect_delay", "2s")
	v.SetDefault("ui.history_limit", 10)
	v.SetDefault("ui.show_details", false)

	// Rental defaults
	v.SetDefault("rental.default_store", 1)

	// Safety defaults
	v.SetDefault("safety.confirm_destructive", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	u, err := url.Parse(cfg.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.url must be an absolute http(s) URL: %s", cfg.API.URL)
	}

	if cfg.API.PageSize < 1 || cfg.API.PageSize > 100 {
		return fmt.Errorf("api.page_size must be between 1 and 100: %d", cfg.API.PageSize)
	}

	if cfg.UI.MessageTTL <= 0 {
		return fmt.Errorf("ui.message_ttl must be positive")
	}
	if cfg.UI.RedirectDelay <= 0 {
		return fmt.Errorf("ui.redirect_delay must be positive")
	}
	if cfg.UI.HistoryLimit < 1 {
		return fmt.Errorf("ui.history_limit must be at least 1")
	}
	if cfg.Rental.DefaultStore < 1 {
		return fmt.Errorf("rental.default_store must be a valid store id")
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter.%s has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
