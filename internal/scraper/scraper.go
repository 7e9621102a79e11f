package scraper

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

const (
	cardSelector      = `tr[class*="event-card"]`
	dateSelector      = "td.text-dark"
	clickableSelector = "td[onclick]"
	venueSelector     = "div.venue"
)

var (
	windowOpenPattern = regexp.MustCompile(`window\.open\(['"]([^'"]+)['"]`)
	hyphenRuns        = regexp.MustCompile(`-+`)
)

// ListingFetcher fetches and parses the listing page
type ListingFetcher interface {
	Listing(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// Scraper handles fetching and parsing the event listing
type Scraper struct {
	fetcher ListingFetcher
	url     string
}

// New creates a Scraper for the given listing URL
func New(fetcher ListingFetcher, listingURL string) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		url:     listingURL,
	}
}

// URL returns the listing URL
func (s *Scraper) URL() string {
	return s.url
}

// FetchListing fetches the listing page and returns one record per event card,
// in page order. Unusable records are included; see event.Record.Usable.
func (s *Scraper) FetchListing(ctx context.Context) ([]*event.Record, error) {
	doc, err := s.fetcher.Listing(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	base, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("parsing listing url: %w", err)
	}

	return ParseCards(doc.Selection, base), nil
}

// ParseListing parses listing HTML from r
func ParseListing(r io.Reader, base *url.URL) ([]*event.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return ParseCards(doc.Selection, base), nil
}

// ParseCards parses every event card under root
func ParseCards(root *goquery.Selection, base *url.URL) []*event.Record {
	cards := root.Find(cardSelector)
	records := make([]*event.Record, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		records = append(records, ParseCard(card, base))
	})
	return records
}

// ParseCard extracts date, link, name and location from one listing card.
// base resolves relative links and may be nil.
func ParseCard(card *goquery.Selection, base *url.URL) *event.Record {
	rec := event.NewRecord()

	if date := strings.TrimSpace(card.Find(dateSelector).First().Text()); date != "" {
		rec.Date = date
	}

	if link, ok := extractLink(card, base); ok {
		if name := NameFromLink(link); name != "" {
			rec.Link = link
			rec.Name = name
		}
	}

	// Only the venue link text is split; bare venue text is kept whole as
	// the city.
	if venue := card.Find(venueSelector).First(); venue.Length() > 0 {
		if a := venue.Find("a").First(); a.Length() > 0 {
			rec.City, rec.State = SplitLocation(collapseSpace(a.Text()))
		} else {
			rec.City = orSentinel(collapseSpace(venue.Text()))
			rec.State = event.NotAvailable
		}
	}

	return rec
}

// extractLink pulls the URL out of the clickable cell's window.open handler
func extractLink(card *goquery.Selection, base *url.URL) (string, bool) {
	onclick, ok := card.Find(clickableSelector).First().Attr("onclick")
	if !ok {
		return "", false
	}

	m := windowOpenPattern.FindStringSubmatch(onclick)
	if m == nil {
		return "", false
	}

	link := m[1]
	if base != nil {
		if u, err := base.Parse(link); err == nil {
			link = u.String()
		}
	}
	return link, true
}

// NameFromLink derives a readable event name from the final path segment of
// link: hyphen runs become spaces and the result is title-cased.
// It returns "" when the link has no usable segment.
func NameFromLink(link string) string {
	segment := link
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		segment = u.Path
	}
	segment = strings.TrimRight(segment, "/")
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}

	name := hyphenRuns.ReplaceAllString(segment, " ")
	return strings.TrimSpace(cases.Title(language.English).String(name))
}

// SplitLocation splits venue text into city and state. The city is the first
// comma-separated token and the state the last; without a comma the whole
// text is the city. Blank parts become event.NotAvailable.
func SplitLocation(location string) (city, state string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return event.NotAvailable, event.NotAvailable
	}

	if !strings.Contains(location, ",") {
		return location, event.NotAvailable
	}

	parts := strings.Split(location, ",")
	return orSentinel(parts[0]), orSentinel(parts[len(parts)-1])
}

func orSentinel(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return event.NotAvailable
	}
	return s
}

// collapseSpace joins whitespace runs, including newlines and tabs, into
// single spaces
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
