package report

import (
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

const auditTimestampFormat = "2006-01-02 15:04:05"

// AuditEntry is one processed event in the audit log
type AuditEntry struct {
	Index  int
	Name   string
	Status event.Status
	Notes  string
}

// NewAuditEntry builds the entry for rec at its 1-based listing position
func NewAuditEntry(index int, rec *event.Record) AuditEntry {
	return AuditEntry{
		Index:  index,
		Name:   rec.Name,
		Status: rec.VerificationStatus,
		Notes:  rec.ValidationNotes,
	}
}

func (e AuditEntry) String() string {
	return fmt.Sprintf("Event %d: %s | Status: %s | Notes: %s", e.Index, e.Name, e.Status, e.Notes)
}

// AuditLog is the human-readable record of a run
type AuditLog struct {
	GeneratedAt time.Time
	RunID       string
	Entries     []AuditEntry
}

// WriteAuditLog writes the banner followed by one line per entry
func WriteAuditLog(w io.Writer, log AuditLog) error {
	banner := fmt.Sprintf("EVENT ORGANIZER SCRAPING VALIDATION LOG\nScraped on: %s\n",
		log.GeneratedAt.Format(auditTimestampFormat))
	if log.RunID != "" {
		banner += fmt.Sprintf("Run ID: %s\n", log.RunID)
	}
	banner += fmt.Sprintf("Total events processed: %d\n\n", len(log.Entries))

	if _, err := io.WriteString(w, banner); err != nil {
		return err
	}
	for _, e := range log.Entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}
