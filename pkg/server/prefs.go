package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/pkg/beerlist"
)

type prefsStore interface {
	ListConfig(ctx context.Context) (beerlist.Config, error)
	SetSortOrder(ctx context.Context, order beerlist.SortOrder) error
	SetFilterText(ctx context.Context, text string) error
	SetStylesToHide(ctx context.Context, styles []string) error
	SetHideUnavailable(ctx context.Context, hide bool) error
}

// PrefsServer persists the device's filter dialog choices so they survive
// app restarts.
type PrefsServer struct {
	prefs  prefsStore
	logger *zap.Logger
}

func NewPrefsServer(prefs prefsStore, logger *zap.Logger) *PrefsServer {
	return &PrefsServer{prefs: prefs, logger: logger}
}

type preferencesPayload struct {
	SortOrder       *string   `json:"sort_order,omitempty"`
	FilterText      *string   `json:"filter_text,omitempty"`
	StylesToHide    *[]string `json:"styles_to_hide,omitempty"`
	HideUnavailable *bool     `json:"hide_unavailable,omitempty"`
}

func (p *PrefsServer) Get(c echo.Context) error {
	config, err := p.prefs.ListConfig(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sortOrder := config.Sort.String()
	hideUnavailable := config.Status == beerlist.ShowAvailableOnly

	return c.JSON(http.StatusOK, preferencesPayload{
		SortOrder:       &sortOrder,
		FilterText:      &config.SearchText,
		StylesToHide:    &config.StylesToHide,
		HideUnavailable: &hideUnavailable,
	})
}

// Put applies only the fields present in the payload; absent fields keep
// their stored value.
func (p *PrefsServer) Put(c echo.Context) error {
	var payload preferencesPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	if payload.SortOrder != nil {
		order, err := beerlist.ParseSortOrder(*payload.SortOrder)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := p.prefs.SetSortOrder(ctx, order); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if payload.FilterText != nil {
		if err := p.prefs.SetFilterText(ctx, *payload.FilterText); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if payload.StylesToHide != nil {
		if err := p.prefs.SetStylesToHide(ctx, *payload.StylesToHide); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if payload.HideUnavailable != nil {
		if err := p.prefs.SetHideUnavailable(ctx, *payload.HideUnavailable); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return p.Get(c)
}
