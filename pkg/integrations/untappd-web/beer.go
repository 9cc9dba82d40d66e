package untappdweb

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.openly.dev/pointy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/pkg/model"
)

// beerScraped maps one search-result item. Kept to what the results page
// shows; no per-beer detail page visits, the festival app only needs a
// quick cross-reference.
type beerScraped struct {
	IDLink  string `attr:"href"          selector:"a.label"`
	Name    string `selector:".name > a"`
	Brewery string `selector:".brewery > a"`
	Style   string `selector:".style"`
	ABV     string `selector:".abv"`
	Rating  string `attr:"data-rating"   selector:".caps"`
}

func (u *Lookup) FindBeer(name string) ([]model.BeerSearchResult, error) {
	collector := colly.NewCollector(
		colly.AllowedDomains(u.allowedDomains()...),
		colly.UserAgent("Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:15.0) Gecko/20100101 Firefox/15.0.1"),
	)

	var (
		errs    error
		results []model.BeerSearchResult
	)

	collector.OnHTML(".beer-item", func(element *colly.HTMLElement) {
		scraped := beerScraped{}

		err := element.Unmarshal(&scraped)
		if multierr.AppendInto(&errs, err) {
			u.logger.Error("failed to unmarshal scraped beer", zap.Error(err))

			return
		}

		u.logger.Info("scraped search result", zap.String("name", scraped.Name), zap.String("brewery", scraped.Brewery))

		results = append(results, scraped.result(u.baseURL))
	})

	collector.OnError(func(response *colly.Response, err error) {
		u.logger.Error("error while scraping beer search results", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	u.logger.Info("scraping query results", zap.String("query", name))
	multierr.AppendInto(&errs, collector.Visit(u.baseURL+"/search?q="+url.QueryEscape(name)))

	return results, errs
}

func (u *Lookup) allowedDomains() []string {
	parsed, err := url.Parse(u.baseURL)
	if err != nil {
		return []string{"untappd.com"}
	}

	return []string{parsed.Host, parsed.Hostname()}
}

func (s beerScraped) result(baseURL string) model.BeerSearchResult {
	return model.BeerSearchResult{
		Name:    strings.TrimSpace(s.Name),
		Brewery: strings.TrimSpace(s.Brewery),
		Style:   strings.TrimSpace(s.Style),
		ABV:     extractABV(s.ABV),
		Rating:  extractRating(s.Rating),
		URL:     baseURL + s.IDLink,
	}
}

func extractABV(text string) *float64 {
	if strings.Contains(text, "%") {
		abv, err := strconv.ParseFloat(strings.TrimSpace(text[:strings.Index(text, "%")]), 64) //nolint:gocritic // We know we won't get -1
		if err == nil {
			return pointy.Float64(abv)
		}
	}

	return nil
}

func extractRating(text string) *float64 {
	rating, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || rating <= 0 {
		return nil
	}

	return pointy.Float64(rating)
}
