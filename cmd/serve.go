package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"droscher.com/FestivalGargoyle/configs"
	"droscher.com/FestivalGargoyle/pkg/auth"
	"droscher.com/FestivalGargoyle/pkg/repository"
	"droscher.com/FestivalGargoyle/pkg/server"
	"droscher.com/FestivalGargoyle/pkg/update"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".FestivalGargoyle.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	updater := update.NewUpdater(repo, repo, conf.Festival.FeedURL,
		time.Duration(conf.Festival.UpdateIntervalHours)*time.Hour, logger)

	authManager := auth.NewAuthManager(conf, logger)

	beerServer := server.NewBeerServer(repo, logger, conf)
	updateServer := server.NewUpdateServer(updater, logger)
	prefsServer := server.NewPrefsServer(repo, logger)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api/v1")
	api.GET("/beers", beerServer.ListBeers)
	api.GET("/beers/:id", beerServer.GetBeer)
	api.PUT("/beers/:id/rating", beerServer.SetRating)
	api.PUT("/beers/:id/wishlist", beerServer.SetWishList)
	api.PUT("/beers/:id/comments", beerServer.SetComments)
	api.GET("/beers/:id/share", beerServer.Share)
	api.GET("/styles", beerServer.ListStyles)
	api.GET("/allergens", beerServer.ListAllergens)
	api.GET("/export.csv", beerServer.ExportCSV)
	api.GET("/lookup", beerServer.LookupBeer)
	api.GET("/preferences", prefsServer.Get)
	api.PUT("/preferences", prefsServer.Put)
	api.POST("/update", updateServer.Trigger, authManager.Middleware())

	address := fmt.Sprintf(":%d", conf.Server.Port)

	corsHandler := configureCORS(router)
	serverHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	logger.Info("listening", zap.String("address", address))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-encoding",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
		},
		MaxAge:             86400, // 24 hours
		OptionsPassthrough: false, // Handle OPTIONS requests in CORS middleware
	})

	return corsOpts.Handler(handler)
}
