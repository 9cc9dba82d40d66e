package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/configs"
	"droscher.com/FestivalGargoyle/pkg/integrations"
)

type LookupCmd struct {
	ConfigFile string `default:".FestivalGargoyle.toml" help:"Path to config file" short:"c"`
	Query      string `arg:""                           help:"Beer name to search for"`
}

func (l *LookupCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(l.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	for _, name := range conf.Integrations.Beer {
		integration := integrations.GetIntegration(name, logger)
		if integration == nil {
			logger.Warn("unknown integration", zap.String("name", name))

			continue
		}

		results, err := integration.FindBeer(l.Query)
		if err != nil {
			logger.Error("failed beer search", zap.String("integration", name), zap.Error(err))

			continue
		}

		for _, result := range results {
			abv := "?"
			if result.ABV != nil {
				abv = fmt.Sprintf("%.1f%%", *result.ABV)
			}

			rating := "unrated"
			if result.Rating != nil {
				rating = fmt.Sprintf("%.2f", *result.Rating)
			}

			fmt.Printf("%s by %s (%s, %s, %s)\n\t%s\n", result.Name, result.Brewery, result.Style, abv, rating, result.URL)
		}
	}

	return nil
}
