package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// NotAvailable is the sentinel for any field that could not be determined.
const NotAvailable = "N/A"

// Status records which extraction method last succeeded for a record.
type Status string

const (
	StatusUnverified       Status = "Unverified"
	StatusNoDetails        Status = "No_Details"
	StatusWebsiteFound     Status = "Website_Found"
	StatusEmailFound       Status = "Email_Found"
	StatusContactPageFound Status = "Contact_Page_Found"

	// Curated demo dataset tags
	StatusVerifiedOfficial Status = "Verified_Official_Source"
	StatusPatternEstimate  Status = "Pattern_Based_Estimate"
)

const (
	errorStatusPrefix = "Error: "
	errorMessageLimit = 50
)

// ErrorStatus builds the error tag for a failed extraction. The message is
// truncated to keep the dataset column readable.
func ErrorStatus(err error) Status {
	if err == nil {
		return StatusUnverified
	}
	msg := []rune(err.Error())
	if len(msg) > errorMessageLimit {
		msg = msg[:errorMessageLimit]
	}
	return Status(errorStatusPrefix + string(msg))
}

// IsError reports whether s is an error tag
func (s Status) IsError() bool {
	return strings.HasPrefix(string(s), errorStatusPrefix)
}

// Columns is the dataset header in output order.
var Columns = []string{
	"Event Name",
	"Date",
	"City",
	"State",
	"Organiser Name",
	"Organiser Website",
	"Organiser Email",
	"Event Link",
	"Verification Status",
	"Validation Notes",
}

// Record represents one event from the listing page and its organizer
type Record struct {
	Name               string `json:"event_name"`
	Link               string `json:"event_link"`
	Date               string `json:"event_date"`
	City               string `json:"city"`
	State              string `json:"state"`
	OrganiserName      string `json:"organiser_name"`
	OrganiserWebsite   string `json:"organiser_website"`
	OrganiserEmail     string `json:"organiser_email"`
	VerificationStatus Status `json:"verification_status"`
	ValidationNotes    string `json:"validation_notes"`
}

// NewRecord creates a Record with every field set to NotAvailable
func NewRecord() *Record {
	return &Record{
		Name:               NotAvailable,
		Link:               NotAvailable,
		Date:               NotAvailable,
		City:               NotAvailable,
		State:              NotAvailable,
		OrganiserName:      NotAvailable,
		OrganiserWebsite:   NotAvailable,
		OrganiserEmail:     NotAvailable,
		VerificationStatus: NotAvailable,
		ValidationNotes:    NotAvailable,
	}
}

// Usable reports whether the card parser resolved both a name and a link.
// Records that are not usable are skipped by the pipeline.
func (r *Record) Usable() bool {
	return r.Name != NotAvailable && r.Link != NotAvailable
}

// HasWebsite reports whether an organizer website was found
func (r *Record) HasWebsite() bool {
	return r.OrganiserWebsite != NotAvailable
}

// HasEmail reports whether an organizer email was found
func (r *Record) HasEmail() bool {
	return r.OrganiserEmail != NotAvailable
}

// Organizer is the outcome of organizer extraction for one event page
type Organizer struct {
	Name    string
	Website string
	Email   string
	Status  Status
}

// NewOrganizer returns an Organizer with sentinel fields and the given status
func NewOrganizer(status Status) Organizer {
	return Organizer{
		Name:    NotAvailable,
		Website: NotAvailable,
		Email:   NotAvailable,
		Status:  status,
	}
}

// ApplyOrganizer copies the organizer fields onto the record
func (r *Record) ApplyOrganizer(o Organizer) {
	r.OrganiserName = orSentinel(o.Name)
	r.OrganiserWebsite = orSentinel(o.Website)
	r.OrganiserEmail = orSentinel(o.Email)
	r.VerificationStatus = Status(orSentinel(string(o.Status)))
}

// ID returns a deterministic identifier derived from the event link, used to
// correlate log lines for the same event.
func (r *Record) ID() string {
	h := sha1.New()
	h.Write([]byte(r.Link))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Row renders the record in Columns order
func (r *Record) Row() []string {
	return []string{
		r.Name,
		r.Date,
		r.City,
		r.State,
		r.OrganiserName,
		r.OrganiserWebsite,
		r.OrganiserEmail,
		r.Link,
		string(r.VerificationStatus),
		r.ValidationNotes,
	}
}

// FromRow parses a dataset row written by Row. Values are taken verbatim.
func FromRow(row []string) (*Record, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("row has %d columns, want %d", len(row), len(Columns))
	}
	return &Record{
		Name:               row[0],
		Date:               row[1],
		City:               row[2],
		State:              row[3],
		OrganiserName:      row[4],
		OrganiserWebsite:   row[5],
		OrganiserEmail:     row[6],
		Link:               row[7],
		VerificationStatus: Status(row[8]),
		ValidationNotes:    row[9],
	}, nil
}

func orSentinel(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
