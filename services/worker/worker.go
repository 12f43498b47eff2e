package worker

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"sjsage522/offerwatch/internal/diff"
	"sjsage522/offerwatch/internal/extractor"
	"sjsage522/offerwatch/internal/message"
	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/fetcher"
	"sjsage522/offerwatch/services/notifier"
	"sjsage522/offerwatch/services/store"
)

// DocumentFetcher retrieves the listing page
type DocumentFetcher interface {
	Fetch(ctx context.Context) (fetcher.Document, error)
}

// RunOptions controls a single run
type RunOptions struct {
	// ForceNotify sends the offer list even when nothing changed
	ForceNotify bool `json:"force_notify"`
}

// RunResult describes a completed run
type RunResult struct {
	ProductCount int
	ScrapedAt    time.Time
	Changed      bool
	Notified     bool
	// Channel names the notifier in Summary, empty for unnamed channels
	Channel string
}

// Summary renders the result for the HTTP trigger and logs
func (r RunResult) Summary() string {
	s := fmt.Sprintf("Scraped %d products based on the page state at %s.",
		r.ProductCount, r.ScrapedAt.UTC().Format(time.RFC3339))
	if r.Notified {
		if r.Channel != "" {
			s += " Sent " + r.Channel + " notification"
		} else {
			s += " Sent notification"
		}
	}
	return s
}

const (
	summarySave       = "Error saving current products snapshot"
	summaryLastBefore = "Error at analyzing previous snapshot"
	summaryNotify     = "Error sending products notification"
	summaryUnknown    = "Snapshot run failed"
)

// Worker runs fetch, extract, persist, diff and notify in sequence
type Worker struct {
	fetcher   DocumentFetcher
	extractor *extractor.Extractor
	store     store.SnapshotStore
	notifier  notifier.Notifier
	formatter *message.Formatter
	clock     func() time.Time
	logger    *logger.Logger
}

// NewWorker creates a new worker. listingURL is linked at the end of every alert.
func NewWorker(
	f DocumentFetcher,
	s store.SnapshotStore,
	n notifier.Notifier,
	listingURL string,
) *Worker {
	return &Worker{
		fetcher:   f,
		extractor: extractor.New(),
		store:     s,
		notifier:  n,
		formatter: message.NewFormatter(listingURL),
		clock:     time.Now,
		logger:    logger.ForWorker(),
	}
}

// WithClock replaces the time source
func (w *Worker) WithClock(clock func() time.Time) *Worker {
	w.clock = clock
	return w
}

// Run performs one snapshot run. The first failing stage aborts the run; its
// summary is forwarded to the notifier and the original error returned.
func (w *Worker) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	start := time.Now()

	doc, err := w.fetcher.Fetch(ctx)
	if err != nil {
		return RunResult{}, w.fail(ctx, fetchSummary(err), err)
	}

	offers, err := w.extractor.Extract(doc.HTML, doc.URL)
	if err != nil {
		return RunResult{}, w.fail(ctx, extractionSummary(err), err)
	}
	for _, o := range offers {
		w.logger.Debug().
			Str("product", o.ProductName).
			Float64("interest_rate", o.InterestRate).
			Float64("min_amount", o.MinAmount).
			Str("currency", o.Currency).
			Time("valid_until", o.ValidUntilDate).
			Str("details_url", o.DetailsURL).
			Msg("Extracted offer")
	}

	scrapedAt := w.clock().UTC()
	result := RunResult{ProductCount: len(offers), ScrapedAt: scrapedAt}

	err = w.store.Save(ctx, offer.Snapshot{ScrapedAt: scrapedAt, Products: offers})
	if err != nil {
		return result, w.fail(ctx, summarySave, err)
	}

	previous, err := w.store.LastBefore(ctx, scrapedAt)
	if err != nil {
		return result, w.fail(ctx, summaryLastBefore, err)
	}

	var previousOffers []offer.Offer
	if previous != nil {
		previousOffers = previous.Products
	}
	result.Changed = diff.WasChanged(previousOffers, offers)

	if result.Changed {
		w.logger.Info().
			Int("added", len(diff.Added(previousOffers, offers))).
			Int("removed", len(diff.Removed(previousOffers, offers))).
			Bool("first_snapshot", previous == nil).
			Msg("Offer list changed")
	}

	if result.Changed || opts.ForceNotify {
		if err := w.notifier.Notify(ctx, w.formatter.Format(offers)); err != nil {
			return result, w.fail(ctx, summaryNotify, err)
		}
		result.Notified = true
		if named, ok := w.notifier.(notifier.Named); ok {
			result.Channel = named.Channel()
		}
	}

	w.logger.Info().
		Int("products", result.ProductCount).
		Bool("changed", result.Changed).
		Bool("notified", result.Notified).
		Bool("force_notify", opts.ForceNotify).
		Dur("elapsed", time.Since(start)).
		Msg(result.Summary())

	return result, nil
}

// fail logs err, forwards summary to the notifier and returns err unchanged
func (w *Worker) fail(ctx context.Context, summary string, err error) error {
	w.logger.Error().
		Err(err).
		Str("type", string(errors.TypeOf(err))).
		Msg(summary)

	if notifyErr := w.notifier.NotifyError(ctx, summary); notifyErr != nil {
		w.logger.Error().Err(notifyErr).Msg("Failed to send error notification")
	}
	return err
}

// ErrorSummary renders a failed run for operators. It carries the failing stage
// but none of the wrapped error text.
func ErrorSummary(err error) string {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeFetch:
		return fetchSummary(err)
	case errors.ErrorTypeExtraction:
		return extractionSummary(err)
	case errors.ErrorTypePersistence:
		var e *errors.Error
		if stderrors.As(err, &e) && e.Stage == "last_before" {
			return summaryLastBefore
		}
		return summarySave
	case errors.ErrorTypeNotification:
		return summaryNotify
	}
	return summaryUnknown
}

func fetchSummary(err error) string {
	var fetchErr *errors.FetchError
	if stderrors.As(err, &fetchErr) {
		if fetchErr.StatusCode != 0 {
			return fmt.Sprintf("Request to scrape url failed with status %d", fetchErr.StatusCode)
		}
		return "Request to scrape url failed: " + fetchErr.Base.Message
	}
	return "Request to scrape url failed"
}

func extractionSummary(err error) string {
	var extractionErr *errors.ExtractionError
	if stderrors.As(err, &extractionErr) {
		if extractionErr.OfferIndex < 0 {
			return fmt.Sprintf("Error extracting products: invalid %s", extractionErr.Field)
		}
		return fmt.Sprintf("Error extracting %s of product %d", extractionErr.Field, extractionErr.OfferIndex+1)
	}
	return "Error extracting products"
}
