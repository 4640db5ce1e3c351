package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Settings is the runtime configuration loaded from settings.yaml. Every
// field has a working default so the file is optional.
type Settings struct {
	ListenAddr         string `yaml:"listen_addr"`
	LookbackYears      int    `yaml:"lookback_years"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	MaxSearchResults   int    `yaml:"max_search_results"`

	SuperwasQueryURL string `yaml:"superwas_query_url"`
	SocrataBaseURL   string `yaml:"socrata_base_url"`

	CacheDir      string `yaml:"cache_dir"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"`

	AdvisorModel string `yaml:"advisor_model"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() *Settings {
	return &Settings{
		ListenAddr:         ":8750",
		LookbackYears:      DefaultLookbackYears,
		HTTPTimeoutSeconds: DefaultHTTPTimeoutSeconds,
		MaxSearchResults:   MaxSearchResults,
		SuperwasQueryURL:   SuperwasQueryURL,
		SocrataBaseURL:     SocrataBaseURL,
		CacheTTLHours:      24,
		AdvisorModel:       "gemini-2.0-flash-exp",
	}
}

// LoadSettings reads a yaml settings file on top of the defaults. A missing
// file is not an error; a malformed one is.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if settings.LookbackYears <= 0 {
		settings.LookbackYears = DefaultLookbackYears
	}
	if settings.HTTPTimeoutSeconds <= 0 {
		settings.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	return settings, nil
}

// HTTPTimeout returns the request timeout as a duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// CacheTTL returns the row-cache time-to-live as a duration.
func (s *Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}
