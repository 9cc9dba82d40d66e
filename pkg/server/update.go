package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/pkg/update"
)

type updateRunner interface {
	Run(ctx context.Context, clean bool) (*update.Result, error)
}

type UpdateServer struct {
	updater updateRunner
	logger  *zap.Logger
}

func NewUpdateServer(updater updateRunner, logger *zap.Logger) *UpdateServer {
	return &UpdateServer{updater: updater, logger: logger}
}

type updateResponse struct {
	RunID     string `json:"run_id"`
	Breweries int    `json:"breweries"`
	Beers     int    `json:"beers"`
	Digest    string `json:"digest"`
	Skipped   bool   `json:"skipped"`
}

// Trigger runs one feed update and reports the terminal result. A trigger
// while a run is in flight is refused, not queued.
func (u *UpdateServer) Trigger(c echo.Context) error {
	clean := c.QueryParam("clean") == "true"

	result, err := u.updater.Run(c.Request().Context(), clean)
	if err != nil {
		if errors.Is(err, update.ErrUpdateInFlight) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}

		u.logger.Error("feed update failed", zap.Error(err))

		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, updateResponse{
		RunID:     result.RunID.String(),
		Breweries: result.Breweries,
		Beers:     result.Beers,
		Digest:    result.Digest,
		Skipped:   result.Skipped,
	})
}
