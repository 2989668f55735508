package view

import "time"

// Settings holds the tunables shared by all controllers
type Settings struct {
	// PageSize is the number of rows requested per page
	PageSize int
	// MessageTTL is how long transient messages stay visible
	MessageTTL time.Duration
	// RedirectDelay is the pause between a successful delete and navigation
	RedirectDelay time.Duration
	// HistoryLimit caps the number of returned rentals displayed
	HistoryLimit int
	// DefaultStore is used for rentals when no store has stock
	DefaultStore int
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		PageSize:      20,
		MessageTTL:    3 * time.Second,
		RedirectDelay: 2 * time.Second,
		HistoryLimit:  10,
		DefaultStore:  1,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.PageSize <= 0 {
		s.PageSize = d.PageSize
	}
	if s.MessageTTL <= 0 {
		s.MessageTTL = d.MessageTTL
	}
	if s.RedirectDelay <= 0 {
		s.RedirectDelay = d.RedirectDelay
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = d.HistoryLimit
	}
	if s.DefaultStore <= 0 {
		s.DefaultStore = d.DefaultStore
	}
	return s
}
