package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/pharma-organizers/internal/config"
	"github.com/pfrederiksen/pharma-organizers/internal/event"
	"github.com/pfrederiksen/pharma-organizers/internal/fetch"
	"github.com/pfrederiksen/pharma-organizers/internal/pipeline"
	"github.com/pfrederiksen/pharma-organizers/internal/report"
)

const rule = "======================================================================"

// writeBanner prints the run configuration before scraping starts
func writeBanner(w io.Writer, cfg config.Config) {
	fmt.Fprintln(w, "MEDICAL & PHARMA EVENT ORGANIZER SCRAPER")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Target: %s\n", cfg.ListingURL)
	fmt.Fprintf(w, "Events to scrape: %d\n", cfg.EventsToScrape)
	fmt.Fprintf(w, "Request delay: %g seconds\n", cfg.RequestDelay)
	fmt.Fprintf(w, "Output file: %s\n", cfg.OutputCSV)
	fmt.Fprintln(w, rule)
}

// writeFailure explains a run that produced nothing
func writeFailure(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scraping failed. No files were written.")

	var se *fetch.StatusError
	if errors.As(res.Err, &se) && se.Code == http.StatusForbidden {
		fmt.Fprintln(w, "The listing site refused the request. It may be geo-blocked from this network.")
	}
}

// writeRunResult reports the counts of a finished run and the files it wrote
func writeRunResult(w io.Writer, res *pipeline.Result, cfg config.Config) {
	fmt.Fprintln(w)
	switch res.Outcome {
	case pipeline.OutcomeComplete:
		fmt.Fprintln(w, "Scraping completed.")
	default:
		fmt.Fprintln(w, "Scraping completed with gaps.")
	}

	fmt.Fprintf(w, "Successfully processed: %d of %d requested events\n", len(res.Records), res.Requested)
	if res.Skipped > 0 || res.Failed > 0 {
		fmt.Fprintf(w, "Skipped: %d, failed: %d\n", res.Skipped, res.Failed)
	}
	if errs := countErrors(res.Records); errs > 0 {
		fmt.Fprintf(w, "Organizer lookups with errors: %d\n", errs)
	}
	if res.Err != nil {
		fmt.Fprintf(w, "Stopped early: %v\n", res.Err)
	}

	fmt.Fprintln(w, "Files created:")
	fmt.Fprintf(w, "  %s (main data)\n", cfg.OutputCSV)
	fmt.Fprintf(w, "  %s (validation log)\n", cfg.ValidationLog)
	fmt.Fprintf(w, "Run ID: %s (%s)\n\n", res.RunID, res.Duration.Round(time.Millisecond))
}

func writeSummary(w io.Writer, records []*event.Record, format report.Format) error {
	if err := report.WriteSummary(w, report.Summarize(records), format); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func countErrors(records []*event.Record) int {
	n := 0
	for _, rec := range records {
		if rec.VerificationStatus.IsError() {
			n++
		}
	}
	return n
}
