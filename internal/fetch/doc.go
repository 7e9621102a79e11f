// Package fetch issues the outbound HTTP requests of a scrape run.
//
// Every request carries the same desktop-browser header set. Listing and
// event pages are fetched with GET and parsed into goquery documents; event
// page fetches are spaced by a token-bucket limiter so consecutive fetches are
// at least the configured delay apart. Liveness probes use HEAD without
// following redirects. There are no retries: a failed request is returned to
// the caller as an error.
package fetch
