package untappdweb

import "go.uber.org/zap"

const (
	IntegrationName = "untappd_web"

	defaultBaseURL = "https://untappd.com"
)

type Lookup struct {
	logger  *zap.Logger
	baseURL string
}

type Option func(*Lookup)

// WithBaseURL points the lookup at a different host. Tests use it to scrape
// a local fixture server.
func WithBaseURL(baseURL string) Option {
	return func(l *Lookup) { l.baseURL = baseURL }
}

func NewLookup(logger *zap.Logger, options ...Option) *Lookup {
	lookup := &Lookup{logger: logger, baseURL: defaultBaseURL}

	for _, option := range options {
		option(lookup)
	}

	return lookup
}
