// Package update implements the feed refresh pipeline: fetch the festival
// feed, decide via content digest and schedule whether a reimport is
// needed, and upsert every producer and product inside one transaction.
package update

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/pkg/feed"
	"droscher.com/FestivalGargoyle/pkg/repository"
)

// ErrUpdateInFlight is returned when Run is triggered while a previous run
// has not finished. The new trigger is skipped, never queued.
var ErrUpdateInFlight = errors.New("feed update already in flight")

// Prefs is the slice of the preferences store the pipeline reads and
// writes: the digest of the last imported payload and the next scheduled
// check.
type Prefs interface {
	LastFeedDigest(ctx context.Context) (string, error)
	SetLastFeedDigest(ctx context.Context, digest string) error
	NextUpdateTime(ctx context.Context) (time.Time, error)
	SetNextUpdateTime(ctx context.Context, next time.Time) error
}

// Progress receives (processed, total) pairs during the upsert loop.
type Progress func(processed, total int)

// Result is the terminal outcome of one run.
type Result struct {
	RunID     uuid.UUID
	Breweries int
	Beers     int
	Digest    string
	Skipped   bool
}

type Updater struct {
	store    repository.ImportStore
	prefs    Prefs
	feedURL  string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
	progress Progress
	now      func() time.Time

	running atomic.Bool
}

type Option func(*Updater)

func WithProgress(progress Progress) Option {
	return func(u *Updater) { u.progress = progress }
}

func WithHTTPClient(client *http.Client) Option {
	return func(u *Updater) { u.client = client }
}

func WithClock(now func() time.Time) Option {
	return func(u *Updater) { u.now = now }
}

func NewUpdater(store repository.ImportStore, prefs Prefs, feedURL string, interval time.Duration, logger *zap.Logger, options ...Option) *Updater {
	updater := &Updater{
		store:    store,
		prefs:    prefs,
		feedURL:  feedURL,
		interval: interval,
		client:   http.DefaultClient,
		logger:   logger,
		now:      time.Now,
	}

	for _, option := range options {
		option(updater)
	}

	return updater
}

// Run performs one fetch-and-import cycle. clean wipes the cache and
// reimports everything, discarding the digest shortcut. At most one run may
// be in flight; a concurrent trigger gets ErrUpdateInFlight immediately.
func (u *Updater) Run(ctx context.Context, clean bool) (*Result, error) {
	if !u.running.CompareAndSwap(false, true) {
		return nil, ErrUpdateInFlight
	}
	defer u.running.Store(false)

	runID := uuid.New()
	logger := u.logger.With(zap.String("run_id", runID.String()), zap.Bool("clean", clean))

	logger.Info("fetching festival feed", zap.String("url", u.feedURL))

	payload, digest, err := u.fetch(ctx)
	if err != nil {
		logger.Error("feed fetch failed", zap.Error(err))

		return nil, err
	}

	skip, err := u.shouldSkip(ctx, digest, clean)
	if err != nil {
		return nil, err
	}

	if skip {
		logger.Info("feed unchanged, skipping import", zap.String("digest", digest))

		return &Result{RunID: runID, Digest: digest, Skipped: true}, nil
	}

	festival, err := feed.Parse(payload)
	if err != nil {
		logger.Error("feed parse failed", zap.Error(err))

		return nil, err
	}

	result := &Result{RunID: runID, Digest: digest}

	err = u.store.ImportTransaction(ctx, func(tx repository.ImportStore) error {
		return u.importFestival(ctx, tx, festival, clean, result)
	})
	if err != nil {
		logger.Error("feed import failed", zap.Error(err))

		return nil, fmt.Errorf("importing feed: %w", err)
	}

	if err := u.prefs.SetLastFeedDigest(ctx, digest); err != nil {
		return nil, err
	}

	if err := u.prefs.SetNextUpdateTime(ctx, u.now().Add(u.interval)); err != nil {
		return nil, err
	}

	logger.Info("feed import complete",
		zap.Int("breweries", result.Breweries),
		zap.Int("beers", result.Beers),
		zap.String("digest", digest))

	return result, nil
}

// fetch downloads the feed, digesting it as it streams. No retry and no
// timeout beyond the caller's context: a stream failure is a terminal
// failure for this run.
func (u *Updater) fetch(ctx context.Context) (io.Reader, string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u.feedURL, nil)
	if err != nil {
		return nil, "", err
	}

	response, err := u.client.Do(request)
	if err != nil {
		return nil, "", fmt.Errorf("fetching feed: %w", err)
	}
	defer response.Body.Close() //nolint:errcheck // read-only body

	if response.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching feed: unexpected status %s", response.Status)
	}

	hash := sha256.New()

	payload, err := io.ReadAll(io.TeeReader(response.Body, hash))
	if err != nil {
		return nil, "", fmt.Errorf("reading feed: %w", err)
	}

	return bytes.NewReader(payload), hex.EncodeToString(hash.Sum(nil)), nil
}

// shouldSkip applies the reimport decision: identical payload, no clean
// request, and the scheduled check time not yet reached.
func (u *Updater) shouldSkip(ctx context.Context, digest string, clean bool) (bool, error) {
	if clean {
		return false, nil
	}

	last, err := u.prefs.LastFeedDigest(ctx)
	if err != nil {
		return false, err
	}

	if last != digest {
		return false, nil
	}

	next, err := u.prefs.NextUpdateTime(ctx)
	if err != nil {
		return false, err
	}

	return u.now().Before(next), nil
}

func (u *Updater) importFestival(ctx context.Context, tx repository.ImportStore, festival *feed.Festival, clean bool, result *Result) error {
	if clean {
		if err := tx.DeleteAllBeers(ctx); err != nil {
			return err
		}

		if err := tx.DeleteAllBreweries(ctx); err != nil {
			return err
		}
	}

	total := festival.ProductCount()
	processed := 0

	for _, producer := range festival.Producers {
		brewery, err := tx.UpsertBrewery(ctx, producer.Brewery())
		if err != nil {
			return err
		}

		result.Breweries++

		for _, product := range producer.Products {
			beer := product.Beer()
			beer.BreweryID = brewery.ID

			if _, err := tx.UpsertBeer(ctx, beer); err != nil {
				return err
			}

			result.Beers++
			processed++

			if u.progress != nil {
				u.progress(processed, total)
			}
		}
	}

	return nil
}
