// Package pipeline drives one scrape run: fetch the listing, parse up to
// events_to_scrape cards, extract and validate each organizer in listing
// order, and collect the records and audit entries for the reporter.
//
// Nothing that goes wrong with a single event stops the run. Detail-page
// failures become error status tags on the record and a panic while
// processing an event is recovered and counted. Only a listing failure, or a
// listing that yields no usable records, ends the run as OutcomeFailed.
package pipeline
