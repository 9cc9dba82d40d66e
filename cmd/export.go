package cmd

import (
	"context"
	"os"

	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/configs"
	"droscher.com/FestivalGargoyle/pkg/beerlist"
	"droscher.com/FestivalGargoyle/pkg/export"
	"droscher.com/FestivalGargoyle/pkg/repository"
)

type ExportCmd struct {
	ConfigFile string `default:".FestivalGargoyle.toml" help:"Path to config file"              short:"c"`
	Output     string `help:"Write to a file instead of stdout"                                 short:"o"`
	Bookmarked bool   `help:"Export only wish-listed beers"`
}

func (e *ExportCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(e.ConfigFile, logger)
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

	ctx := context.Background()

	config, err := repo.ListConfig(ctx)
	if err != nil {
		return err
	}

	partition := beerlist.PartitionAll
	if e.Bookmarked {
		partition = beerlist.PartitionBookmarked
	}

	list, err := beerlist.New(ctx, repo, partition, config)
	if err != nil {
		return err
	}

	writer := os.Stdout

	if e.Output != "" {
		writer, err = os.Create(e.Output)
		if err != nil {
			return err
		}
		defer writer.Close() //nolint:errcheck // best effort on exit
	}

	return export.WriteCSV(writer, list.Beers())
}
