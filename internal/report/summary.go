package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

// Format specifies the summary output format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

const previewRows = 5

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'markdown')", s)
	}
}

// StatusCount is one bar of the verification status histogram
type StatusCount struct {
	Status event.Status `json:"status"`
	Count  int          `json:"count"`
}

// PreviewRow is a condensed record for the sample preview
type PreviewRow struct {
	Name      string       `json:"event_name"`
	City      string       `json:"city"`
	Organizer string       `json:"organiser_name"`
	Status    event.Status `json:"verification_status"`
}

// Summary holds data-quality counts for a set of records
type Summary struct {
	Total             int           `json:"total"`
	WithOrganizerName int           `json:"with_organiser_name"`
	WithWebsite       int           `json:"with_organiser_website"`
	WithEmail         int           `json:"with_organiser_email"`
	WithLocation      int           `json:"with_location"`
	Statuses          []StatusCount `json:"statuses"`
	Preview           []PreviewRow  `json:"preview,omitempty"`
}

// Summarize counts non-sentinel fields and builds the status histogram,
// ordered by count descending then status.
func Summarize(records []*event.Record) Summary {
	s := Summary{Total: len(records)}
	counts := make(map[event.Status]int)

	for i, rec := range records {
		if rec.OrganiserName != event.NotAvailable {
			s.WithOrganizerName++
		}
		if rec.HasWebsite() {
			s.WithWebsite++
		}
		if rec.HasEmail() {
			s.WithEmail++
		}
		if rec.City != event.NotAvailable {
			s.WithLocation++
		}
		counts[rec.VerificationStatus]++

		if i < previewRows {
			s.Preview = append(s.Preview, PreviewRow{
				Name:      rec.Name,
				City:      rec.City,
				Organizer: rec.OrganiserName,
				Status:    rec.VerificationStatus,
			})
		}
	}

	for status, n := range counts {
		s.Statuses = append(s.Statuses, StatusCount{Status: status, Count: n})
	}
	sort.Slice(s.Statuses, func(i, j int) bool {
		if s.Statuses[i].Count != s.Statuses[j].Count {
			return s.Statuses[i].Count > s.Statuses[j].Count
		}
		return s.Statuses[i].Status < s.Statuses[j].Status
	})

	return s
}

// WriteSummary writes the summary in the given format
func WriteSummary(w io.Writer, s Summary, format Format) error {
	switch format {
	case FormatJSON:
		return writeSummaryJSON(w, s)
	case FormatText:
		return writeSummaryText(w, s)
	case FormatMarkdown:
		return writeSummaryMarkdown(w, s)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeSummaryJSON(w io.Writer, s Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

func writeSummaryText(w io.Writer, s Summary) error {
	if s.Total == 0 {
		_, err := fmt.Fprintln(w, "No data to summarize.")
		return err
	}

	var b strings.Builder
	fmt.Fprintln(&b, "DATA QUALITY SUMMARY:")
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Total events: %d\n", s.Total)
	fmt.Fprintf(&b, "Events with organizer names: %d\n", s.WithOrganizerName)
	fmt.Fprintf(&b, "Events with websites: %d\n", s.WithWebsite)
	fmt.Fprintf(&b, "Events with emails: %d\n", s.WithEmail)
	fmt.Fprintf(&b, "Events with location: %d\n", s.WithLocation)

	fmt.Fprintln(&b, "\nVERIFICATION STATUS BREAKDOWN:")
	for _, sc := range s.Statuses {
		fmt.Fprintf(&b, "    %s: %d\n", sc.Status, sc.Count)
	}

	if len(s.Preview) > 0 {
		fmt.Fprintln(&b, "\nSAMPLE DATA PREVIEW:")
		fmt.Fprintln(&b, strings.Repeat("-", 80))
		for _, p := range s.Preview {
			fmt.Fprintf(&b, "  %s | %s | %s | %s\n", clip(p.Name), clip(p.City), clip(p.Organizer), p.Status)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummaryMarkdown(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("Event Organizer Data Quality")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Events"},
		Rows: [][]string{
			{"Total", strconv.Itoa(s.Total)},
			{"With organizer name", strconv.Itoa(s.WithOrganizerName)},
			{"With website", strconv.Itoa(s.WithWebsite)},
			{"With email", strconv.Itoa(s.WithEmail)},
			{"With location", strconv.Itoa(s.WithLocation)},
		},
	})
	md.PlainText("")

	if len(s.Statuses) > 0 {
		rows := make([][]string, 0, len(s.Statuses))
		for _, sc := range s.Statuses {
			rows = append(rows, []string{"`" + string(sc.Status) + "`", strconv.Itoa(sc.Count)})
		}
		md.H2("Verification Status")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Status", "Events"}, Rows: rows})
		md.PlainText("")
	}

	if len(s.Preview) > 0 {
		rows := make([][]string, 0, len(s.Preview))
		for _, p := range s.Preview {
			rows = append(rows, []string{p.Name, p.City, p.Organizer, string(p.Status)})
		}
		md.H2("Sample")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Event Name", "City", "Organiser Name", "Verification Status"}, Rows: rows})
	}

	return md.Build()
}

// clip shortens preview cells to 40 characters
func clip(s string) string {
	r := []rune(s)
	if len(r) <= 40 {
		return s
	}
	return string(r[:37]) + "..."
}
