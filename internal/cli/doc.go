// Package cli implements the command-line interface for pharma-organizers.
//
// The root command runs a live scrape: it loads the configuration, builds a
// pipeline.Runner, writes the dataset and audit log, and prints a data-quality
// summary. The demo subcommand writes the curated dataset through the same
// reporter, and summary re-reads an existing dataset file.
package cli
