package organizer

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
	"github.com/pfrederiksen/pharma-organizers/internal/logger"
	"github.com/pfrederiksen/pharma-organizers/internal/validate"
)

// PageFetcher fetches and parses an event page
type PageFetcher interface {
	Page(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// Extractor runs the strategy chain against event pages
type Extractor struct {
	pages      PageFetcher
	strategies []Strategy
}

// NewExtractor creates an Extractor with the default chain:
// KeywordProximity, EmailScan, ContactProbe.
func NewExtractor(pages PageFetcher, prober validate.Prober) *Extractor {
	return NewExtractorWith(pages,
		KeywordProximity{Keywords: OrganizerKeywords},
		EmailScan{Blocklist: SocialDomainBlocklist},
		ContactProbe{Pattern: ContactLinkPattern, Prober: prober},
	)
}

// NewExtractorWith creates an Extractor running strategies in the given order
func NewExtractorWith(pages PageFetcher, strategies ...Strategy) *Extractor {
	return &Extractor{pages: pages, strategies: strategies}
}

// Extract fetches pageURL and returns the organizer found on it. A fetch
// failure yields sentinel fields and an error status.
func (e *Extractor) Extract(ctx context.Context, pageURL string) event.Organizer {
	doc, err := e.pages.Page(ctx, pageURL)
	if err != nil {
		logger.Warn("Event page fetch failed", logger.Fields{"url": pageURL, "error": err.Error()})
		logger.IncrCounter("organizer.fetch_errors")
		return event.NewOrganizer(event.ErrorStatus(err))
	}

	page := &Page{Tree: NewTree(doc)}
	if doc.Url != nil {
		page.URL = doc.Url
	} else if u, err := url.Parse(pageURL); err == nil {
		page.URL = u
	}

	return e.Run(ctx, page)
}

// Run applies every strategy to page in order. Strategies never
// short-circuit each other: each finding is laid over the result so far, so
// the last strategy to find something decides the status.
func (e *Extractor) Run(ctx context.Context, page *Page) event.Organizer {
	result := event.NewOrganizer(event.StatusUnverified)

	for _, s := range e.strategies {
		f, ok := s.Find(ctx, page)
		if !ok {
			continue
		}
		logger.Debug("Organizer strategy matched", logger.Fields{"strategy": s.Name(), "status": string(f.Status)})
		logger.IncrCounter("organizer.match." + s.Name())

		if f.Name != "" {
			result.Name = f.Name
		}
		if f.Website != "" {
			result.Website = f.Website
		}
		if f.Email != "" {
			result.Email = f.Email
		}
		if f.Status != "" {
			result.Status = f.Status
		}
	}

	return result
}
