package model

// BeerSearchResult is one hit from a web beer lookup. Never persisted; the
// presentation layer shows it on the beer detail screen.
type BeerSearchResult struct {
	Name    string
	Brewery string
	Style   string
	ABV     *float64
	Rating  *float64
	URL     string
}
