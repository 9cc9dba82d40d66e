package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"droscher.com/FestivalGargoyle/pkg/export"
	"droscher.com/FestivalGargoyle/pkg/model"
)

func exportBeer(name, brewery, style string, rating int) *model.Beer {
	return &model.Beer{
		Name:    name,
		Style:   style,
		Rating:  rating,
		Brewery: model.Brewery{Name: brewery},
	}
}

func TestCSV_EmptyListIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "Beer, Brewery, Style, Rating\n", export.CSV(nil))
}

func TestCSV_OneLinePerBeer(t *testing.T) {
	beers := []*model.Beer{
		exportBeer("A Mild", "Alpha Brewing", "mild", 4),
		exportBeer("A Best", "Charlie Brewing", "best", 0),
	}

	expected := "Beer, Brewery, Style, Rating\n" +
		"\"A Mild\", \"Alpha Brewing\", \"mild\", 4\n" +
		"\"A Best\", \"Charlie Brewing\", \"best\", 0\n"

	assert.Equal(t, expected, export.CSV(beers))
}

// Fields containing quotes or commas are written through untouched. The
// historical export never escaped them and its consumers depend on that.
func TestCSV_DoesNotEscapeFieldContent(t *testing.T) {
	beers := []*model.Beer{
		exportBeer(`Old "Faithful", Vintage`, "Brew, Co", "stout", 5),
	}

	expected := "Beer, Brewery, Style, Rating\n" +
		"\"Old \"Faithful\", Vintage\", \"Brew, Co\", \"stout\", 5\n"

	assert.Equal(t, expected, export.CSV(beers))
}

func TestShareText_Unrated(t *testing.T) {
	beer := exportBeer("A Mild", "Alpha Brewing", "mild", 0)

	assert.Equal(t, "I'm drinking A Mild by Alpha Brewing", export.ShareText(beer))
}

func TestShareText_RatedAppendsStars(t *testing.T) {
	beer := exportBeer("A Mild", "Alpha Brewing", "mild", 3)

	assert.Equal(t, "I'm drinking A Mild by Alpha Brewing. My rating: ★★★", export.ShareText(beer))
}

func TestSearchURL_BreweryComesFirst(t *testing.T) {
	beer := exportBeer("A Mild", "Alpha Brewing", "mild", 0)

	assert.Equal(t, "https://www.google.com/search?q=Alpha+Brewing+A+Mild", export.SearchURL(beer))
}

func TestSearchURL_EscapesQuery(t *testing.T) {
	beer := exportBeer("50/50 IPA", "Brew & Co", "ipa", 0)

	assert.Equal(t, "https://www.google.com/search?q=Brew+%26+Co+50%2F50+IPA", export.SearchURL(beer))
}

func TestSearchURL_MissingBrewery(t *testing.T) {
	beer := exportBeer("Orphan Ale", "", "pale", 0)

	assert.Equal(t, "https://www.google.com/search?q=Orphan+Ale", export.SearchURL(beer))
}
