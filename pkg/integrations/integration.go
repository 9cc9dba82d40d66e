package integrations

import (
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/pkg/integrations/untappd-web"
	"droscher.com/FestivalGargoyle/pkg/model"
)

// Integration looks up beers on an external site, enriching the festival
// detail screen beyond what the feed carries.
type Integration interface {
	FindBeer(name string) ([]model.BeerSearchResult, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == untappdweb.IntegrationName {
		return untappdweb.NewLookup(logger)
	}

	return nil
}
