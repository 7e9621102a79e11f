// Package report writes the outputs of a scrape run: the CSV dataset, the
// plain-text audit log, and a data-quality summary in text, JSON or Markdown.
package report
