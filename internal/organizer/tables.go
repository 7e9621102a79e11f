package organizer

import "regexp"

// OrganizerKeywords are the phrases KeywordProximity searches for, in order.
var OrganizerKeywords = []string{
	"organizer",
	"organised by",
	"organiser",
	"hosted by",
	"presented by",
}

// SocialDomainBlocklist excludes platform addresses from EmailScan. Matching
// is a case-insensitive substring test on the whole address.
var SocialDomainBlocklist = []string{
	"facebook",
	"twitter",
	"linkedin",
	"google",
	"youtube",
}

// ContactLinkPattern selects the anchors ContactProbe follows
var ContactLinkPattern = regexp.MustCompile(`(?i)contact|about|organizer`)

// EmailPattern finds email-shaped strings anywhere in page markup
var EmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

const (
	keywordMatchLimit = 2
	siblingWindow     = 3
	contactLinkLimit  = 2
)
