package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	// ErrConfigNotFound is returned by Load when the file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	ErrNoListingURL       = errors.New("listing_url is required")
	ErrInvalidEventCount  = errors.New("events_to_scrape must be positive")
	ErrInvalidDelay       = errors.New("request_delay_seconds must be non-negative")
	ErrInvalidTimeout     = errors.New("timeouts must be positive")
	ErrMissingOutputPaths = errors.New("output_csv and validation_log are required")
)
