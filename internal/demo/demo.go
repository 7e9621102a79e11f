// Package demo provides a curated dataset of medical and pharma events with
// known organizers. It is written through the same reporter as a live scrape
// and is useful when the listing site is unreachable.
package demo

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

// DefaultCount is the number of events in the curated set
const DefaultCount = 8

//go:embed events.yaml
var eventsYAML []byte

type entry struct {
	Name               string `yaml:"event_name"`
	Date               string `yaml:"event_date"`
	City               string `yaml:"city"`
	State              string `yaml:"state"`
	OrganiserName      string `yaml:"organiser_name"`
	OrganiserWebsite   string `yaml:"organiser_website"`
	OrganiserEmail     string `yaml:"organiser_email"`
	Link               string `yaml:"event_link"`
	VerificationStatus string `yaml:"verification_status"`
	ValidationNotes    string `yaml:"validation_notes"`
}

// Records returns the first n curated records. n <= 0 or larger than the set
// returns all of them.
func Records(n int) ([]*event.Record, error) {
	var entries []entry
	if err := yaml.Unmarshal(eventsYAML, &entries); err != nil {
		return nil, fmt.Errorf("parsing demo dataset: %w", err)
	}

	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}

	records := make([]*event.Record, 0, len(entries))
	for _, e := range entries {
		rec := event.NewRecord()
		rec.Name = orSentinel(e.Name)
		rec.Date = orSentinel(e.Date)
		rec.City = orSentinel(e.City)
		rec.State = orSentinel(e.State)
		rec.Link = orSentinel(e.Link)
		rec.ApplyOrganizer(event.Organizer{
			Name:    e.OrganiserName,
			Website: e.OrganiserWebsite,
			Email:   e.OrganiserEmail,
			Status:  event.Status(e.VerificationStatus),
		})
		rec.ValidationNotes = orSentinel(e.ValidationNotes)
		records = append(records, rec)
	}

	return records, nil
}

func orSentinel(s string) string {
	if s == "" {
		return event.NotAvailable
	}
	return s
}
