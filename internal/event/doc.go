// Package event provides the record type for a scraped medical/pharma event.
//
// A Record is built incrementally by the pipeline: the card parser fills the
// identity, schedule and location fields, the organizer extractor fills the
// organizer fields and verification status, and the validator appends the
// validation notes. Every field starts as the NotAvailable sentinel so a record
// is never partially unset when it reaches the reporter.
package event
