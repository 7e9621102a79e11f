package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListingURL     = "https://10times.com/usa/medical-pharma"
	DefaultEventsToScrape = 10
	DefaultRequestDelay   = 2.0
	DefaultOutputCSV      = "verified_event_organizers.csv"
	DefaultValidationLog  = "data_validation_log.txt"

	DefaultListingTimeout = 30.0
	DefaultPageTimeout    = 15.0
	DefaultProbeTimeout   = 10.0

	// DefaultConfigFile is looked up in the working directory, then in $HOME.
	DefaultConfigFile = ".pharma-organizers.yaml"
)

// Config is the full set of recognized options for a scrape run
type Config struct {
	ListingURL     string  `yaml:"listing_url"`
	EventsToScrape int     `yaml:"events_to_scrape"`
	RequestDelay   float64 `yaml:"request_delay_seconds"`
	OutputCSV      string  `yaml:"output_csv"`
	ValidationLog  string  `yaml:"validation_log"`

	// StealthMode is accepted for compatibility. The browser header set is
	// sent whether it is on or off.
	StealthMode bool `yaml:"stealth_mode"`

	RespectRobots bool `yaml:"respect_robots"`

	ListingTimeout float64 `yaml:"listing_timeout_seconds"`
	PageTimeout    float64 `yaml:"page_timeout_seconds"`
	ProbeTimeout   float64 `yaml:"probe_timeout_seconds"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file or flags are given
func Default() Config {
	return Config{
		ListingURL:     DefaultListingURL,
		EventsToScrape: DefaultEventsToScrape,
		RequestDelay:   DefaultRequestDelay,
		OutputCSV:      DefaultOutputCSV,
		ValidationLog:  DefaultValidationLog,
		StealthMode:    true,
		ListingTimeout: DefaultListingTimeout,
		PageTimeout:    DefaultPageTimeout,
		ProbeTimeout:   DefaultProbeTimeout,
		LogLevel:       "info",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns configPath if it exists, otherwise the first
// DefaultConfigFile found in the working directory or the home directory.
// It returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Validate returns the first problem found in the configuration
func (c Config) Validate() error {
	if c.ListingURL == "" {
		return ErrNoListingURL
	}
	if u, err := url.Parse(c.ListingURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid listing_url %q", c.ListingURL)
	}
	if c.EventsToScrape <= 0 {
		return ErrInvalidEventCount
	}
	if c.RequestDelay < 0 {
		return ErrInvalidDelay
	}
	if c.ListingTimeout <= 0 || c.PageTimeout <= 0 || c.ProbeTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.OutputCSV == "" || c.ValidationLog == "" {
		return ErrMissingOutputPaths
	}
	return nil
}

// Delay is the minimum spacing between consecutive event-page fetches
func (c Config) Delay() time.Duration {
	return seconds(c.RequestDelay)
}

// ListingTimeoutDuration bounds the listing page fetch
func (c Config) ListingTimeoutDuration() time.Duration {
	return seconds(c.ListingTimeout)
}

// PageTimeoutDuration bounds each event page fetch
func (c Config) PageTimeoutDuration() time.Duration {
	return seconds(c.PageTimeout)
}

// ProbeTimeoutDuration bounds each liveness probe
func (c Config) ProbeTimeoutDuration() time.Duration {
	return seconds(c.ProbeTimeout)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
