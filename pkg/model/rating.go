package model

import "strings"

// StarRating is a whole-star score between 0 and 5 inclusive.
type StarRating int

const MaxStars = 5

// NewStarRating clamps stars into the valid range.
func NewStarRating(stars int) StarRating {
	if stars < 0 {
		return 0
	}

	if stars > MaxStars {
		return MaxStars
	}

	return StarRating(stars)
}

// StarRatingFromFloat truncates towards zero before clamping, so 4.9 is four
// stars.
func StarRatingFromFloat(stars float64) StarRating {
	return NewStarRating(int(stars))
}

func (r StarRating) Stars() int {
	return int(r)
}

// String renders the rating as a run of plain asterisks, e.g. "***".
func (r StarRating) String() string {
	return strings.Repeat("*", int(r))
}

// Fancy renders the rating with decorative star glyphs, e.g. "★★★".
func (r StarRating) Fancy() string {
	return strings.Repeat("★", int(r))
}
