package organizer

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
	"github.com/pfrederiksen/pharma-organizers/internal/validate"
)

// Page is an event page handed to each strategy
type Page struct {
	URL  *url.URL
	Tree Tree
}

// Finding is what one strategy found. Empty fields leave the previous value
// in place.
type Finding struct {
	Name    string
	Website string
	Email   string
	Status  event.Status
}

// Strategy is one organizer heuristic. Find reports false when it found
// nothing.
type Strategy interface {
	Name() string
	Find(ctx context.Context, page *Page) (Finding, bool)
}

// KeywordProximity finds an organizer website linked next to an organizer
// phrase such as "hosted by".
type KeywordProximity struct {
	Keywords []string
}

func (KeywordProximity) Name() string { return "keyword_proximity" }

func (k KeywordProximity) Find(_ context.Context, page *Page) (Finding, bool) {
	for _, keyword := range k.Keywords {
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))

		parents := page.Tree.TextParents(pattern)
		if len(parents) > keywordMatchLimit {
			parents = parents[:keywordMatchLimit]
		}

		for _, parent := range parents {
			for _, sibling := range parent.NextSiblings(siblingWindow) {
				link, ok := sibling.FirstLink()
				if !ok || !isWebLink(link.Href) {
					continue
				}

				name := link.Text
				if name == "" {
					name = hostSegment(link.Href)
				}
				return Finding{
					Name:    name,
					Website: link.Href,
					Status:  event.StatusWebsiteFound,
				}, true
			}
		}
	}
	return Finding{}, false
}

// EmailScan takes the first non-platform email address in the page markup,
// including addresses that only appear in attributes such as mailto links.
type EmailScan struct {
	Blocklist []string
}

func (EmailScan) Name() string { return "email_scan" }

func (e EmailScan) Find(_ context.Context, page *Page) (Finding, bool) {
	for _, email := range EmailPattern.FindAllString(page.Tree.Markup(), -1) {
		if e.blocked(email) {
			continue
		}
		return Finding{Email: email, Status: event.StatusEmailFound}, true
	}
	return Finding{}, false
}

func (e EmailScan) blocked(email string) bool {
	lower := strings.ToLower(email)
	for _, fragment := range e.Blocklist {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// ContactProbe follows contact/about/organizer links and keeps the first one
// that answers a liveness probe.
type ContactProbe struct {
	Pattern *regexp.Regexp
	Prober  validate.Prober
}

func (ContactProbe) Name() string { return "contact_probe" }

func (c ContactProbe) Find(ctx context.Context, page *Page) (Finding, bool) {
	var candidates []Link
	for _, link := range page.Tree.Anchors() {
		if c.Pattern.MatchString(link.Text) {
			candidates = append(candidates, link)
		}
	}
	if len(candidates) > contactLinkLimit {
		candidates = candidates[:contactLinkLimit]
	}

	for _, link := range candidates {
		if link.Href == "" || isMailto(link.Href) {
			continue
		}

		target := link.Href
		if page.URL != nil {
			u, err := page.URL.Parse(link.Href)
			if err != nil {
				continue
			}
			target = u.String()
		}

		if validate.URL(ctx, c.Prober, target) {
			return Finding{Website: target, Status: event.StatusContactPageFound}, true
		}
	}
	return Finding{}, false
}

func isMailto(href string) bool {
	return strings.HasPrefix(strings.ToLower(href), "mailto:")
}

func isWebLink(href string) bool {
	return href != "" && !isMailto(href) && strings.Contains(href, "http")
}

// hostSegment returns the part of href between "//" and the next "/"
func hostSegment(href string) string {
	rest := href
	if i := strings.Index(rest, "//"); i >= 0 {
		rest = rest[i+2:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
