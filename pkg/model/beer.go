package model

import "gorm.io/gorm"

// Statuses the festival organisers publish for a beer. Free-form text in the
// feed, but these four are the ones the venue actually uses.
const (
	StatusAvailable = "Available"
	StatusOrdered   = "Ordered"
	StatusArrived   = "Arrived"
	StatusSoldOut   = "Sold Out"

	// StatusUnknown is substituted when the feed omits the field.
	StatusUnknown = "Unknown"
)

// Beer categories assigned at import time.
const (
	CategoryBeer     = "beer"
	CategoryLowNo    = "low-no"
	LowAlcoholMaxABV = 0.5
)

// UnavailableStatuses are hidden when the user asks for available beers only.
func UnavailableStatuses() []string {
	return []string{StatusOrdered, StatusArrived, StatusSoldOut}
}

type Beer struct {
	gorm.Model
	FestivalID  string `gorm:"uniqueIndex"`
	Name        string
	Description string
	Style       string
	StatusText  string
	Dispense    string
	Category    string
	ABV         *float64
	Allergens   string // comma-separated allergen names from the feed
	Rating      int
	OnWishList  bool
	Comments    string
	BreweryID   uint

	Brewery Brewery `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// LowOrNoAlcohol reports whether the beer's ABV is known and at or below the
// low-alcohol threshold. Display helper only: list partitioning goes by
// Category, which is fixed at import time and may disagree with this for
// rows imported before the category field existed.
func (b *Beer) LowOrNoAlcohol() bool {
	return b.ABV != nil && *b.ABV <= LowAlcoholMaxABV
}

// StarRating returns the beer's rating as a value type.
func (b *Beer) StarRating() StarRating {
	return NewStarRating(b.Rating)
}
