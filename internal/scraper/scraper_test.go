package scraper

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

const na = event.NotAvailable

func cardFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + html + "</table>"))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	card := doc.Find("tr").First()
	if card.Length() == 0 {
		t.Fatal("fixture has no tr")
	}
	return card
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestParseListing_Fixture(t *testing.T) {
	f, err := os.Open("testdata/listing.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	defer f.Close()

	records, err := ParseListing(f, mustURL(t, "https://10times.com/usa/medical-pharma"))
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (sponsored row excluded)", len(records))
	}

	want := []event.Record{
		{
			Name: "Bio International Convention",
			Link: "https://10times.com/bio-international-convention",
			Date: "Mon, 22 - Thu, 25 Jun 2026",
			City: "San Diego", State: "CA",
		},
		{
			Name: "Himss Global Health",
			Link: "https://10times.com/himss--global-health/",
			Date: "Mon, 09 - Thu, 12 Mar 2026",
			City: "Las Vegas, NV", State: na,
		},
		{
			Name: na, Link: na,
			Date: "Sat, 13 Jun 2026",
			City: "Chicago", State: "IL",
		},
		{
			Name: "Apha Annual Meeting",
			Link: "https://10times.com/apha-annual-meeting",
			Date: na,
			City: na, State: na,
		},
	}

	for i, w := range want {
		got := records[i]
		if got.Name != w.Name || got.Link != w.Link || got.Date != w.Date || got.City != w.City || got.State != w.State {
			t.Errorf("record %d = {%q %q %q %q %q}, want {%q %q %q %q %q}",
				i, got.Name, got.Link, got.Date, got.City, got.State,
				w.Name, w.Link, w.Date, w.City, w.State)
		}
		if got.OrganiserName != na || got.VerificationStatus != na {
			t.Errorf("record %d organizer fields should be sentinel", i)
		}
	}

	if records[2].Usable() {
		t.Error("card without click handler should not be usable")
	}
}

func TestParseCard_NoClickableCell(t *testing.T) {
	card := cardFromHTML(t, `<tr class="event-card"><td class="text-dark">Jun 2026</td><td>Title</td></tr>`)

	rec := ParseCard(card, nil)

	if rec.Link != na {
		t.Errorf("Link = %q, want N/A", rec.Link)
	}
	if rec.Name != na {
		t.Errorf("Name = %q, want N/A", rec.Name)
	}
	if rec.Usable() {
		t.Error("record should not be usable")
	}
}

func TestParseCard_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantName string
		wantLink string
		wantDate string
	}{
		{
			name:     "handler without window.open",
			html:     `<tr><td onclick="trackClick(42)">x</td></tr>`,
			wantName: na,
			wantLink: na,
			wantDate: na,
		},
		{
			name:     "double quoted url",
			html:     `<tr><td onclick='window.open("https://10times.com/pharma-expo-usa")'>x</td></tr>`,
			wantName: "Pharma Expo Usa",
			wantLink: "https://10times.com/pharma-expo-usa",
			wantDate: na,
		},
		{
			name:     "blank date cell",
			html:     `<tr><td class="text-dark">   </td><td onclick="window.open('https://10times.com/a-b')">x</td></tr>`,
			wantName: "A B",
			wantLink: "https://10times.com/a-b",
			wantDate: na,
		},
		{
			name:     "url with no path segment",
			html:     `<tr><td onclick="window.open('https://10times.com/')">x</td></tr>`,
			wantName: na,
			wantLink: na,
			wantDate: na,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ParseCard(cardFromHTML(t, tt.html), nil)
			if rec.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", rec.Name, tt.wantName)
			}
			if rec.Link != tt.wantLink {
				t.Errorf("Link = %q, want %q", rec.Link, tt.wantLink)
			}
			if rec.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", rec.Date, tt.wantDate)
			}
		})
	}
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		location  string
		wantCity  string
		wantState string
	}{
		{"Boston, MA", "Boston", "MA"},
		{"Boston", "Boston", na},
		{"Boston, Greater Area, MA", "Boston", "MA"},
		{"  San Diego ,  CA ", "San Diego", "CA"},
		{"", na, na},
		{"Boston,", "Boston", na},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			city, state := SplitLocation(tt.location)
			if city != tt.wantCity || state != tt.wantState {
				t.Errorf("SplitLocation(%q) = (%q, %q), want (%q, %q)",
					tt.location, city, state, tt.wantCity, tt.wantState)
			}
		})
	}
}

func TestParseCard_Venue(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCity  string
		wantState string
	}{
		{
			name:      "venue link",
			html:      `<tr><td><div class="venue"><a>Boston, MA</a> <span>Hynes Center</span></div></td></tr>`,
			wantCity:  "Boston",
			wantState: "MA",
		},
		{
			name:      "venue text without link",
			html:      `<tr><td><div class="venue">Online</div></td></tr>`,
			wantCity:  "Online",
			wantState: na,
		},
		{
			name:      "venue text with comma stays whole",
			html:      `<tr><td><div class="venue">Las Vegas, NV</div></td></tr>`,
			wantCity:  "Las Vegas, NV",
			wantState: na,
		},
		{
			name:      "venue text whitespace collapsed",
			html:      "<tr><td><div class=\"venue\"><span>Hynes</span>\n\t<span>Boston</span></div></td></tr>",
			wantCity:  "Hynes Boston",
			wantState: na,
		},
		{
			name:      "venue link whitespace collapsed",
			html:      "<tr><td><div class=\"venue\"><a>\n  Boston,\n\tMA </a></div></td></tr>",
			wantCity:  "Boston",
			wantState: "MA",
		},
		{
			name:      "blank venue",
			html:      "<tr><td><div class=\"venue\"> \n </div></td></tr>",
			wantCity:  na,
			wantState: na,
		},
		{
			name:      "no venue",
			html:      `<tr><td>nothing</td></tr>`,
			wantCity:  na,
			wantState: na,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ParseCard(cardFromHTML(t, tt.html), nil)
			if rec.City != tt.wantCity || rec.State != tt.wantState {
				t.Errorf("location = (%q, %q), want (%q, %q)", rec.City, rec.State, tt.wantCity, tt.wantState)
			}
		})
	}
}

func TestNameFromLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://10times.com/bio-international-convention", "Bio International Convention"},
		{"https://10times.com/asco---annual", "Asco Annual"},
		{"https://10times.com/rsna/", "Rsna"},
		{"https://10times.com/himss?utm=list", "Himss"},
		{"https://10times.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := NameFromLink(tt.link); got != tt.want {
				t.Errorf("NameFromLink(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}

type stubListing struct {
	html string
	err  error
}

func (s stubListing) Listing(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(s.html))
}

func TestFetchListing(t *testing.T) {
	html := `<table>
		<tr class="event-card"><td onclick="window.open('/one-event')">1</td></tr>
		<tr class="event-card"><td onclick="window.open('/two-event')">2</td></tr>
	</table>`

	s := New(stubListing{html: html}, "https://10times.com/usa/medical-pharma")
	records, err := s.FetchListing(context.Background())
	if err != nil {
		t.Fatalf("FetchListing() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Link != "https://10times.com/two-event" {
		t.Errorf("relative link not resolved: %q", records[1].Link)
	}

	failing := New(stubListing{err: errors.New("unexpected status code: 403")}, "https://10times.com/usa/medical-pharma")
	if _, err := failing.FetchListing(context.Background()); err == nil {
		t.Error("FetchListing() should return the fetch error")
	}
}
