// Package validate holds the post-extraction checks applied to each record:
// a syntactic email check and an HTTP liveness probe for websites.
package validate

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

// Validation note tags
const (
	NoteWebsiteValid       = "Website_Valid"
	NoteWebsiteInvalid     = "Website_Invalid"
	NoteEmailFormatValid   = "Email_Format_Valid"
	NoteEmailFormatInvalid = "Email_Format_Invalid"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Prober issues a liveness request and returns the response status code
type Prober interface {
	Head(ctx context.Context, rawURL string) (int, error)
}

// Email reports whether s is shaped like local@domain.tld. No DNS lookup is made.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// URL reports whether rawURL answers a HEAD request with 200, 301 or 302.
// Any error counts as not live.
func URL(ctx context.Context, p Prober, rawURL string) bool {
	code, err := p.Head(ctx, rawURL)
	if err != nil {
		return false
	}
	switch code {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return true
	default:
		return false
	}
}

// Notes checks the organizer website and email of rec and returns the
// comma-joined validation tags, or the sentinel when neither field is set.
func Notes(ctx context.Context, p Prober, rec *event.Record) string {
	var notes []string

	if rec.HasWebsite() {
		if URL(ctx, p, rec.OrganiserWebsite) {
			notes = append(notes, NoteWebsiteValid)
		} else {
			notes = append(notes, NoteWebsiteInvalid)
		}
	}

	if rec.HasEmail() {
		if Email(rec.OrganiserEmail) {
			notes = append(notes, NoteEmailFormatValid)
		} else {
			notes = append(notes, NoteEmailFormatInvalid)
		}
	}

	if len(notes) == 0 {
		return event.NotAvailable
	}
	return strings.Join(notes, ", ")
}
