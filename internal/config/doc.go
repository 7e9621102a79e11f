// Package config holds the run configuration for the organizer scraper.
//
// A Config is an explicit value passed into the pipeline; nothing in the
// module reads process-wide settings. Values come from Default, optionally
// overlaid by a YAML file (see Load), and finally by CLI flags.
package config
