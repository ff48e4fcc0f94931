package server

import (
	"log/slog"

	"fahrtkosten-service/internal/config"
	"fahrtkosten-service/internal/metrics"
	"fahrtkosten-service/internal/providers"
	"fahrtkosten-service/internal/providers/basketballbund"
	"fahrtkosten-service/internal/providers/fixture"
	"fahrtkosten-service/internal/web"
)

// providerFactory assembles the league data provider and, when
// available, the authenticated archive surface.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build returns the retry-wrapped provider plus the raw archive client.
// Test mode serves fixed data and performs no network calls; it has no
// archive surface.
func (f providerFactory) build(cfg config.Config) (providers.LeagueProvider, web.ArchiveProvider) {
	if cfg.TestMode {
		return fixture.New(), nil
	}

	client := basketballbund.NewClient(basketballbund.Config{
		BaseURL:  cfg.Federation.BaseURL,
		Verband:  cfg.Federation.Verband,
		Season:   cfg.Club.Season,
		Username: cfg.Federation.Username,
		Password: cfg.Federation.Password,
		Timeout:  cfg.RequestTimeout,
		Logger:   f.logger,
	})
	wrapped := providers.NewRetryingProvider(client, f.logger, f.metrics, "basketball-bund", cfg.RetryCount, cfg.RetryBackoff)
	return wrapped, client
}
