// Package export holds the formatting glue around the beer list: the CSV
// dump, the social share text, and the web-search URL for a beer.
package export

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"droscher.com/FestivalGargoyle/pkg/model"
)

// CSVHeader is the fixed first line of every export.
const CSVHeader = "Beer, Brewery, Style, Rating"

// WriteCSV writes one line per beer after the header. Fields are wrapped in
// double quotes but embedded quotes, commas, and newlines are NOT escaped;
// that matches the historical export format consumers already parse, so it
// stays byte-compatible. encoding/csv would quote differently and break
// them.
func WriteCSV(writer io.Writer, beers []*model.Beer) error {
	if _, err := fmt.Fprintf(writer, "%s\n", CSVHeader); err != nil {
		return err
	}

	for _, beer := range beers {
		_, err := fmt.Fprintf(writer, "\"%s\", \"%s\", \"%s\", %d\n", beer.Name, beer.Brewery.Name, beer.Style, beer.Rating)
		if err != nil {
			return err
		}
	}

	return nil
}

// CSV renders the whole export as a string.
func CSV(beers []*model.Beer) string {
	var builder strings.Builder

	_ = WriteCSV(&builder, beers)

	return builder.String()
}

// ShareText builds the social sharing message for one beer.
func ShareText(beer *model.Beer) string {
	text := fmt.Sprintf("I'm drinking %s by %s", beer.Name, beer.Brewery.Name)

	if beer.Rating > 0 {
		text = fmt.Sprintf("%s. My rating: %s", text, beer.StarRating().Fancy())
	}

	return text
}

// SearchURL builds the web-search address for a beer, brewery name first so
// results disambiguate same-named beers.
func SearchURL(beer *model.Beer) string {
	query := strings.TrimSpace(beer.Brewery.Name + " " + beer.Name)

	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}
