package cmd

import (
	"context"
	"time"

	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/configs"
	"droscher.com/FestivalGargoyle/pkg/repository"
	"droscher.com/FestivalGargoyle/pkg/update"
)

type UpdateCmd struct {
	ConfigFile string `default:".FestivalGargoyle.toml" help:"Path to config file" short:"c"`
	Clean      bool   `help:"Wipe the cache and reimport everything"`
}

func (u *UpdateCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(u.ConfigFile, logger)
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

	progress := func(processed, total int) {
		logger.Info("importing beers", zap.Int("processed", processed), zap.Int("total", total))
	}

	updater := update.NewUpdater(repo, repo, conf.Festival.FeedURL,
		time.Duration(conf.Festival.UpdateIntervalHours)*time.Hour, logger,
		update.WithProgress(progress))

	result, err := updater.Run(context.Background(), u.Clean)
	if err != nil {
		return err
	}

	if result.Skipped {
		logger.Info("feed unchanged, nothing imported", zap.String("digest", result.Digest))

		return nil
	}

	logger.Info("update complete",
		zap.Int("breweries", result.Breweries),
		zap.Int("beers", result.Beers),
		zap.String("digest", result.Digest))

	return nil
}
