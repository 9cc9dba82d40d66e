// Package beerlist holds the festival list view: a materialized, ordered
// sequence of beers computed from one Config against the record store.
// Every mutator re-queries synchronously, so the sequence a caller observes
// through Count and At is always consistent with the last mutation.
package beerlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"droscher.com/FestivalGargoyle/pkg/model"
)

// Store is the record-store contract the list depends on. Rows come back
// already partitioned, status/style filtered, text matched, and sorted with
// a deterministic id tie-break.
type Store interface {
	QueryBeers(ctx context.Context, criteria Criteria) ([]*model.Beer, error)
}

var ErrQueryFailed = errors.New("beer list query failed")

// BeerList caches the most recently computed sequence. Not safe for
// concurrent use; the presentation layer owns it from a single goroutine.
type BeerList struct {
	store     Store
	partition Partition
	config    Config
	beers     []*model.Beer
}

// New materializes the initial sequence immediately. There is no lazy
// evaluation: after New returns without error, Count and At are valid.
func New(ctx context.Context, store Store, partition Partition, config Config) (*BeerList, error) {
	list := &BeerList{store: store, partition: partition, config: config}

	if err := list.recompute(ctx); err != nil {
		return nil, err
	}

	return list, nil
}

func (l *BeerList) Count() int {
	return len(l.beers)
}

// At returns the beer at position i in the current sequence. Indices must
// come from Count; out-of-range panics, as with any slice.
func (l *BeerList) At(i int) *model.Beer {
	return l.beers[i]
}

func (l *BeerList) Config() Config {
	return l.config
}

func (l *BeerList) Partition() Partition {
	return l.partition
}

// Beers returns the current sequence. Callers must not mutate it.
func (l *BeerList) Beers() []*model.Beer {
	return l.beers
}

func (l *BeerList) SetFilterText(ctx context.Context, text string) error {
	l.config.SearchText = text

	return l.recompute(ctx)
}

func (l *BeerList) SetSortOrder(ctx context.Context, order SortOrder) error {
	l.config.Sort = order

	return l.recompute(ctx)
}

func (l *BeerList) SetStylesToHide(ctx context.Context, styles []string) error {
	l.config.StylesToHide = styles

	return l.recompute(ctx)
}

func (l *BeerList) SetAllergensToHide(ctx context.Context, allergens []string) error {
	l.config.AllergensToHide = allergens

	return l.recompute(ctx)
}

func (l *BeerList) SetStatusToShow(ctx context.Context, status StatusFilter) error {
	l.config.Status = status

	return l.recompute(ctx)
}

// Refresh re-runs the query with the unchanged Config. Called after an
// external mutation (rating change, wish-list toggle, completed feed
// update) so the cache picks up the new rows.
func (l *BeerList) Refresh(ctx context.Context) error {
	return l.recompute(ctx)
}

func (l *BeerList) recompute(ctx context.Context) error {
	beers, err := l.store.QueryBeers(ctx, l.config.criteria(l.partition))
	if err != nil {
		// Keep the previous sequence; the caller surfaces the failure
		// instead of rendering a silently empty list.
		return fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	l.beers = excludeAllergens(beers, l.config.AllergensToHide)

	return nil
}

// excludeAllergens drops beers whose allergen string contains any hidden
// allergen, case-insensitively. Beers with no recorded allergens always
// pass. Applied here rather than in SQL because allergens are stored as one
// free-form comma-separated string.
func excludeAllergens(beers []*model.Beer, hide []string) []*model.Beer {
	if len(hide) == 0 {
		return beers
	}

	kept := make([]*model.Beer, 0, len(beers))

	for _, beer := range beers {
		if beer.Allergens == "" || !containsAnyFold(beer.Allergens, hide) {
			kept = append(kept, beer)
		}
	}

	return kept
}

func containsAnyFold(haystack string, needles []string) bool {
	haystack = strings.ToLower(haystack)

	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, strings.ToLower(needle)) {
			return true
		}
	}

	return false
}
