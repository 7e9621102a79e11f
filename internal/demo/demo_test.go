package demo

import (
	"testing"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
	"github.com/pfrederiksen/pharma-organizers/internal/validate"
)

func TestRecords(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"all", 0, DefaultCount},
		{"negative", -1, DefaultCount},
		{"capped", 3, 3},
		{"more than available", 50, DefaultCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Records(tt.n)
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("Records(%d) returned %d records, want %d", tt.n, len(records), tt.want)
			}
		})
	}
}

func TestRecords_Content(t *testing.T) {
	records, err := Records(0)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}

	first := records[0]
	if first.Name != "BIO International Convention 2026" || first.City != "San Diego" || first.State != "CA" {
		t.Errorf("first record = %+v", first)
	}
	if first.VerificationStatus != event.StatusVerifiedOfficial {
		t.Errorf("first status = %q, want %q", first.VerificationStatus, event.StatusVerifiedOfficial)
	}

	verified := 0
	for _, rec := range records {
		for i, v := range rec.Row() {
			if v == "" {
				t.Errorf("%s: column %q is empty", rec.Name, event.Columns[i])
			}
		}
		if !rec.Usable() {
			t.Errorf("%s: record is not usable", rec.Name)
		}
		if !validate.Email(rec.OrganiserEmail) {
			t.Errorf("%s: invalid email %q", rec.Name, rec.OrganiserEmail)
		}
		switch rec.VerificationStatus {
		case event.StatusVerifiedOfficial:
			verified++
		case event.StatusPatternEstimate:
		default:
			t.Errorf("%s: unexpected status %q", rec.Name, rec.VerificationStatus)
		}
	}
	if verified != 2 {
		t.Errorf("verified records = %d, want 2", verified)
	}
}
