package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Rental  RentalConfig  `mapstructure:"rental"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the catalog service connection details
type APIConfig struct {
	URL      string `mapstructure:"url"`
	PageSize int    `mapstructure:"page_size"`
}

// UIConfig contains timings and limits of the views
type UIConfig struct {
	MessageTTL    time.Duration `mapstructure:"message_ttl"`
	RedirectDelay time.Duration `mapstructure:"redirect_delay"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	ShowDetails   bool          `mapstructure:"show_details"`
}

// RentalConfig contains rental defaults
type RentalConfig struct {
	DefaultStore int `mapstructure:"default_store"`
}

// FilterConfig contains named filter expressions usable with --filter
type FilterConfig map[string]string

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	ConfirmDestructive bool `mapstructure:"confirm_destructive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
