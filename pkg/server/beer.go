// Package server exposes the festival list to the presentation layer over
// HTTP. Handlers are thin: they parse the request into a beerlist.Config,
// run the core, and convert models to transport JSON.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/configs"
	"droscher.com/FestivalGargoyle/pkg/beerlist"
	"droscher.com/FestivalGargoyle/pkg/export"
	"droscher.com/FestivalGargoyle/pkg/integrations"
	"droscher.com/FestivalGargoyle/pkg/model"
	"droscher.com/FestivalGargoyle/pkg/repository"
)

type beerStore interface {
	QueryBeers(ctx context.Context, criteria beerlist.Criteria) ([]*model.Beer, error)
	GetBeerByID(ctx context.Context, beerID uint) (*model.Beer, error)
	GetDistinctStyles(ctx context.Context) ([]string, error)
	GetDistinctAllergens(ctx context.Context) ([]string, error)
	UpdateBeerRating(ctx context.Context, beerID uint, rating model.StarRating) error
	UpdateBeerWishList(ctx context.Context, beerID uint, onWishList bool) error
	UpdateBeerComments(ctx context.Context, beerID uint, comments string) error
	ListConfig(ctx context.Context) (beerlist.Config, error)
}

type BeerServer struct {
	store  beerStore
	logger *zap.Logger
	config *configs.Config
}

func NewBeerServer(store beerStore, logger *zap.Logger, config *configs.Config) *BeerServer {
	return &BeerServer{store: store, logger: logger, config: config}
}

type beerResponse struct {
	ID          uint     `json:"id"`
	FestivalID  string   `json:"festival_id"`
	Name        string   `json:"name"`
	Brewery     string   `json:"brewery"`
	Style       string   `json:"style"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Dispense    string   `json:"dispense"`
	Category    string   `json:"category"`
	ABV         *float64 `json:"abv"`
	Allergens   string   `json:"allergens"`
	Rating      int      `json:"rating"`
	OnWishList  bool     `json:"on_wish_list"`
	Comments    string   `json:"comments"`
	LowOrNo     bool     `json:"low_or_no_alcohol"`
}

func beerFromModel(beer *model.Beer) beerResponse {
	return beerResponse{
		ID:          beer.ID,
		FestivalID:  beer.FestivalID,
		Name:        beer.Name,
		Brewery:     beer.Brewery.Name,
		Style:       beer.Style,
		Description: beer.Description,
		Status:      beer.StatusText,
		Dispense:    beer.Dispense,
		Category:    beer.Category,
		ABV:         beer.ABV,
		Allergens:   beer.Allergens,
		Rating:      beer.Rating,
		OnWishList:  beer.OnWishList,
		Comments:    beer.Comments,
		LowOrNo:     beer.LowOrNoAlcohol(),
	}
}

type listResponse struct {
	Count int            `json:"count"`
	Beers []beerResponse `json:"beers"`
}

// ListBeers runs one list computation. Query parameters override the
// persisted preferences for this request only; the device keeps its own
// view state.
func (b *BeerServer) ListBeers(c echo.Context) error {
	ctx := c.Request().Context()

	config, err := b.store.ListConfig(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	config, err = overrideConfig(config, c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	partition, err := parsePartition(c.QueryParam("partition"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := beerlist.New(ctx, b.store, partition, config)
	if err != nil {
		b.logger.Error("beer list query failed", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	response := listResponse{Count: list.Count(), Beers: make([]beerResponse, 0, list.Count())}
	for i := 0; i < list.Count(); i++ {
		response.Beers = append(response.Beers, beerFromModel(list.At(i)))
	}

	return c.JSON(http.StatusOK, response)
}

func overrideConfig(config beerlist.Config, c echo.Context) (beerlist.Config, error) {
	params := c.QueryParams()

	if params.Has("search") {
		config.SearchText = c.QueryParam("search")
	}

	if params.Has("sort") {
		order, err := beerlist.ParseSortOrder(c.QueryParam("sort"))
		if err != nil {
			return config, err
		}

		config.Sort = order
	}

	if params.Has("hide_styles") {
		config.StylesToHide = splitParam(c.QueryParam("hide_styles"))
	}

	if params.Has("hide_allergens") {
		config.AllergensToHide = splitParam(c.QueryParam("hide_allergens"))
	}

	if params.Has("available_only") {
		if c.QueryParam("available_only") == "true" {
			config.Status = beerlist.ShowAvailableOnly
		} else {
			config.Status = beerlist.ShowAllStatuses
		}
	}

	return config, nil
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

func parsePartition(value string) (beerlist.Partition, error) {
	switch value {
	case "", "all":
		return beerlist.PartitionAll, nil
	case "bookmarked":
		return beerlist.PartitionBookmarked, nil
	case "low_no":
		return beerlist.PartitionLowNoAlcohol, nil
	}

	return beerlist.PartitionAll, echo.NewHTTPError(http.StatusBadRequest, "unknown partition: "+value)
}

func (b *BeerServer) GetBeer(c echo.Context) error {
	beer, err := b.loadBeer(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, beerFromModel(beer))
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// SetRating persists a star rating, immediately and synchronously; the
// client calls Refresh on its list afterwards.
func (b *BeerServer) SetRating(c echo.Context) error {
	beerID, err := parseBeerID(c)
	if err != nil {
		return err
	}

	var request ratingRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if request.Rating < 0 || request.Rating > model.MaxStars {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 0 and 5")
	}

	if err := b.store.UpdateBeerRating(c.Request().Context(), beerID, model.NewStarRating(request.Rating)); err != nil {
		return b.storeError(err)
	}

	return b.respondWithBeer(c, beerID)
}

type wishListRequest struct {
	OnWishList bool `json:"on_wish_list"`
}

func (b *BeerServer) SetWishList(c echo.Context) error {
	beerID, err := parseBeerID(c)
	if err != nil {
		return err
	}

	var request wishListRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := b.store.UpdateBeerWishList(c.Request().Context(), beerID, request.OnWishList); err != nil {
		return b.storeError(err)
	}

	return b.respondWithBeer(c, beerID)
}

type commentsRequest struct {
	Comments string `json:"comments"`
}

func (b *BeerServer) SetComments(c echo.Context) error {
	beerID, err := parseBeerID(c)
	if err != nil {
		return err
	}

	var request commentsRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := b.store.UpdateBeerComments(c.Request().Context(), beerID, request.Comments); err != nil {
		return b.storeError(err)
	}

	return b.respondWithBeer(c, beerID)
}

func (b *BeerServer) ListStyles(c echo.Context) error {
	styles, err := b.store.GetDistinctStyles(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string][]string{"styles": styles})
}

func (b *BeerServer) ListAllergens(c echo.Context) error {
	allergens, err := b.store.GetDistinctAllergens(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string][]string{"allergens": allergens})
}

// ExportCSV dumps the list the user currently sees, in the legacy CSV
// format.
func (b *BeerServer) ExportCSV(c echo.Context) error {
	ctx := c.Request().Context()

	config, err := b.store.ListConfig(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	list, err := beerlist.New(ctx, b.store, beerlist.PartitionAll, config)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)

	return export.WriteCSV(c.Response(), list.Beers())
}

type shareResponse struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (b *BeerServer) Share(c echo.Context) error {
	beer, err := b.loadBeer(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shareResponse{Text: export.ShareText(beer), URL: export.SearchURL(beer)})
}

// LookupBeer cross-references a beer name against the configured web
// integrations.
func (b *BeerServer) LookupBeer(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}

	var results []model.BeerSearchResult

	for _, name := range b.config.Integrations.Beer {
		integration := integrations.GetIntegration(name, b.logger)
		if integration == nil {
			continue
		}

		found, err := integration.FindBeer(query)
		if err != nil {
			b.logger.Error("failed beer search", zap.String("integration", name), zap.Error(err))

			continue
		}

		results = append(results, found...)
	}

	return c.JSON(http.StatusOK, map[string][]model.BeerSearchResult{"results": results})
}

func (b *BeerServer) loadBeer(c echo.Context) (*model.Beer, error) {
	beerID, err := parseBeerID(c)
	if err != nil {
		return nil, err
	}

	beer, err := b.store.GetBeerByID(c.Request().Context(), beerID)
	if err != nil {
		return nil, b.storeError(err)
	}

	return beer, nil
}

func (b *BeerServer) respondWithBeer(c echo.Context, beerID uint) error {
	beer, err := b.store.GetBeerByID(c.Request().Context(), beerID)
	if err != nil {
		return b.storeError(err)
	}

	return c.JSON(http.StatusOK, beerFromModel(beer))
}

func (b *BeerServer) storeError(err error) error {
	if errors.Is(err, repository.ErrBeerNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "beer not found")
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func parseBeerID(c echo.Context) (uint, error) {
	beerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid beer id")
	}

	return uint(beerID), nil
}
