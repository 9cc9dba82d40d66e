package beerlist

import (
	"errors"
	"fmt"

	"droscher.com/FestivalGargoyle/pkg/model"
)

// Partition selects which logical subset of the festival list a BeerList
// queries.
type Partition int

const (
	PartitionAll Partition = iota
	PartitionBookmarked
	PartitionLowNoAlcohol
)

// SortField is the beer attribute a sort order compares on.
type SortField int

const (
	SortFieldBrewery SortField = iota
	SortFieldName
	SortFieldABV
	SortFieldRating
)

// SortOrder is one of the eight orderings the filter dialog offers. Each
// carries the field it sorts on and a direction.
type SortOrder int

const (
	SortBreweryAsc SortOrder = iota
	SortBreweryDesc
	SortNameAsc
	SortNameDesc
	SortABVAsc
	SortABVDesc
	SortRatingAsc
	SortRatingDesc
)

var sortOrderNames = map[SortOrder]string{
	SortBreweryAsc:  "brewery_asc",
	SortBreweryDesc: "brewery_desc",
	SortNameAsc:     "name_asc",
	SortNameDesc:    "name_desc",
	SortABVAsc:      "abv_asc",
	SortABVDesc:     "abv_desc",
	SortRatingAsc:   "rating_asc",
	SortRatingDesc:  "rating_desc",
}

var ErrUnknownSortOrder = errors.New("unknown sort order")

func (s SortOrder) Field() SortField {
	switch s {
	case SortNameAsc, SortNameDesc:
		return SortFieldName
	case SortABVAsc, SortABVDesc:
		return SortFieldABV
	case SortRatingAsc, SortRatingDesc:
		return SortFieldRating
	case SortBreweryAsc, SortBreweryDesc:
		return SortFieldBrewery
	}

	return SortFieldBrewery
}

func (s SortOrder) Ascending() bool {
	switch s {
	case SortBreweryAsc, SortNameAsc, SortABVAsc, SortRatingAsc:
		return true
	case SortBreweryDesc, SortNameDesc, SortABVDesc, SortRatingDesc:
		return false
	}

	return true
}

func (s SortOrder) String() string {
	if name, found := sortOrderNames[s]; found {
		return name
	}

	return sortOrderNames[SortBreweryAsc]
}

// ParseSortOrder is the inverse of String. Used by the preferences store and
// the HTTP layer.
func ParseSortOrder(name string) (SortOrder, error) {
	for order, orderName := range sortOrderNames {
		if orderName == name {
			return order, nil
		}
	}

	return SortBreweryAsc, fmt.Errorf("%w: %q", ErrUnknownSortOrder, name)
}

// StatusFilter is the two-valued availability choice: show everything, or
// hide beers whose venue status marks them as not drinkable yet or anymore.
type StatusFilter int

const (
	ShowAllStatuses StatusFilter = iota
	ShowAvailableOnly
)

// StatusesToHide resolves the filter into the concrete exclusion set the
// store query applies.
func (f StatusFilter) StatusesToHide() []string {
	if f == ShowAvailableOnly {
		return model.UnavailableStatuses()
	}

	return nil
}

// Config is the complete filter/sort specification for one list computation.
// Values are replaced wholesale by the BeerList mutators; a Config is never
// mutated during a recomputation.
type Config struct {
	Sort            SortOrder
	SearchText      string
	StylesToHide    []string
	AllergensToHide []string
	Status          StatusFilter
}

// DefaultConfig matches a fresh install: brewery-name order, no text filter,
// nothing hidden.
func DefaultConfig() Config {
	return Config{Sort: SortBreweryAsc, Status: ShowAllStatuses}
}

// Criteria is the store-facing query contract: everything except the
// allergen exclusion, which the BeerList applies as a post-filter.
type Criteria struct {
	Partition      Partition
	Sort           SortOrder
	SearchText     string
	StylesToHide   []string
	StatusesToHide []string
}

func (c Config) criteria(partition Partition) Criteria {
	return Criteria{
		Partition:      partition,
		Sort:           c.Sort,
		SearchText:     c.SearchText,
		StylesToHide:   c.StylesToHide,
		StatusesToHide: c.Status.StatusesToHide(),
	}
}
