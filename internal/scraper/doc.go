// Package scraper fetches the event listing page and parses its event cards.
//
// Each listing row ("tr" with an event-card class) yields one event.Record
// carrying the event date, link, name derived from the link slug, and the
// city/state split from the venue text. Missing markup never fails the parse;
// the affected fields stay at the event.NotAvailable sentinel and the caller
// decides whether the record is usable.
package scraper
