package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/pharma-organizers/internal/config"
	"github.com/pfrederiksen/pharma-organizers/internal/event"
	"github.com/pfrederiksen/pharma-organizers/internal/fetch"
	"github.com/pfrederiksen/pharma-organizers/internal/logger"
	"github.com/pfrederiksen/pharma-organizers/internal/organizer"
	"github.com/pfrederiksen/pharma-organizers/internal/report"
	"github.com/pfrederiksen/pharma-organizers/internal/scraper"
	"github.com/pfrederiksen/pharma-organizers/internal/validate"
)

// Outcome is the observable end state of a run
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
)

// Listing returns the parsed cards of the listing page in page order
type Listing interface {
	FetchListing(ctx context.Context) ([]*event.Record, error)
	URL() string
}

// Extractor finds the organizer on an event page
type Extractor interface {
	Extract(ctx context.Context, pageURL string) event.Organizer
}

// Result is everything a run produced
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	// Requested is events_to_scrape. Found is the number of cards on the
	// listing page before the cap.
	Requested int
	Found     int
	Skipped   int
	Failed    int

	Records []*event.Record
	Audit   report.AuditLog
	Outcome Outcome

	// Err is the listing error for a failed run, or the context error when
	// the run was interrupted.
	Err error
}

// Runner executes scrape runs
type Runner struct {
	cfg       config.Config
	listing   Listing
	extractor Extractor
	prober    validate.Prober
	progress  io.Writer
}

// New creates a Runner from its parts
func New(cfg config.Config, listing Listing, extractor Extractor, prober validate.Prober) *Runner {
	return &Runner{
		cfg:       cfg,
		listing:   listing,
		extractor: extractor,
		prober:    prober,
		progress:  io.Discard,
	}
}

// NewFromConfig wires a Runner to a live HTTP client built from cfg
func NewFromConfig(cfg config.Config) (*Runner, error) {
	client, err := fetch.New(fetch.Options{
		ListingTimeout: cfg.ListingTimeoutDuration(),
		PageTimeout:    cfg.PageTimeoutDuration(),
		ProbeTimeout:   cfg.ProbeTimeoutDuration(),
		Delay:          cfg.Delay(),
		StealthMode:    cfg.StealthMode,
		RespectRobots:  cfg.RespectRobots,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return New(cfg,
		scraper.New(client, cfg.ListingURL),
		organizer.NewExtractor(client, client),
		client,
	), nil
}

// WithProgress sets where human-readable progress lines are written
func (r *Runner) WithProgress(w io.Writer) *Runner {
	if w == nil {
		w = io.Discard
	}
	r.progress = w
	return r
}

// Run performs one scrape. It always returns a Result; a failed run has
// Outcome OutcomeFailed and carries the cause in Err.
func (r *Runner) Run(ctx context.Context) *Result {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Requested: r.cfg.EventsToScrape,
	}
	fields := logger.Fields{"run_id": res.RunID, "url": r.listing.URL()}

	logger.Info("Starting scrape run", logger.Fields{
		"run_id":           res.RunID,
		"url":              r.listing.URL(),
		"events_to_scrape": r.cfg.EventsToScrape,
		"request_delay":    r.cfg.RequestDelay,
	})
	r.printf("Fetching event listing: %s\n", r.listing.URL())

	cards, err := r.listing.FetchListing(ctx)
	if err != nil {
		logger.Error("Listing fetch failed", fields, err)
		r.printf("Listing fetch failed: %v\n", err)
		return r.finish(res, err)
	}

	res.Found = len(cards)
	if len(cards) > r.cfg.EventsToScrape {
		cards = cards[:r.cfg.EventsToScrape]
	}
	logger.Info("Listing parsed", logger.Fields{"run_id": res.RunID, "cards": res.Found, "processing": len(cards)})
	r.printf("Found %d event cards, processing %d\n", res.Found, len(cards))

	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run interrupted", logger.Fields{"run_id": res.RunID, "processed": i})
			res.Err = err
			break
		}

		index := i + 1
		r.printf("\nProcessing event %d/%d\n", index, len(cards))

		if !card.Usable() {
			res.Skipped++
			logger.IncrCounter("events.skipped")
			logger.Debug("Skipping card without name or link", logger.Fields{"run_id": res.RunID, "index": index})
			r.printf("  Could not extract basic event data\n")
			continue
		}

		if err := r.processSafely(ctx, card); err != nil {
			res.Failed++
			logger.IncrCounter("events.failed")
			logger.Error("Event processing failed", logger.Fields{"run_id": res.RunID, "index": index, "event": card.Name}, err)
			r.printf("  Error processing event %d: %v\n", index, err)
			continue
		}

		res.Records = append(res.Records, card)
		res.Audit.Entries = append(res.Audit.Entries, report.NewAuditEntry(index, card))
		logger.IncrCounter("events.processed")
		r.printf("  Status: %s\n", card.VerificationStatus)
	}

	if len(res.Records) == 0 && res.Err == nil {
		return r.finish(res, fmt.Errorf("no usable events found on %s", r.listing.URL()))
	}
	return r.finish(res, res.Err)
}

// Process fills the organizer and validation fields of rec. A record without
// a link is marked No_Details and left otherwise untouched.
func (r *Runner) Process(ctx context.Context, rec *event.Record) {
	r.printf("  Event: %s\n", rec.Name)
	r.printf("  Location: %s, %s\n", rec.City, rec.State)
	r.printf("  Link: %s\n", rec.Link)

	o := event.NewOrganizer(event.StatusNoDetails)
	if rec.Link != event.NotAvailable {
		o = r.extractor.Extract(ctx, rec.Link)
	}
	rec.ApplyOrganizer(o)
	rec.ValidationNotes = validate.Notes(ctx, r.prober, rec)

	logger.Debug("Event processed", logger.Fields{
		"event_id": rec.ID(),
		"event":    rec.Name,
		"status":   string(rec.VerificationStatus),
		"notes":    rec.ValidationNotes,
	})
}

func (r *Runner) processSafely(ctx context.Context, rec *event.Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	start := time.Now()
	r.Process(ctx, rec)
	logger.RecordTiming("event.process", time.Since(start))
	return nil
}

func (r *Runner) finish(res *Result, err error) *Result {
	res.Err = err
	res.Duration = time.Since(res.StartedAt)
	res.Audit.RunID = res.RunID
	res.Audit.GeneratedAt = time.Now()

	switch {
	case len(res.Records) == 0:
		res.Outcome = OutcomeFailed
	case len(res.Records) >= res.Requested:
		res.Outcome = OutcomeComplete
	default:
		res.Outcome = OutcomePartial
	}

	logger.IncrCounter("run." + string(res.Outcome))
	logger.SetGauge("run.records", float64(len(res.Records)))
	logger.RecordTiming("run.duration", res.Duration)

	fields := logger.Fields{
		"run_id":   res.RunID,
		"outcome":  string(res.Outcome),
		"records":  len(res.Records),
		"skipped":  res.Skipped,
		"failed":   res.Failed,
		"duration": res.Duration.String(),
	}
	if res.Outcome == OutcomeFailed {
		logger.Error("Scrape run failed", fields, err)
	} else {
		logger.Info("Scrape run finished", fields)
	}

	return res
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.progress, format, args...)
}
