package server

import (
	"log/slog"

	"fahrtkosten-service/internal/config"
	"fahrtkosten-service/internal/geo"
	"fahrtkosten-service/internal/geo/googlemaps"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/metrics"
)

// newResolverFactory returns a constructor for session-scoped geo
// resolvers. Without an API key (or in test mode) lookups are served by
// the deterministic offline geocoder.
func newResolverFactory(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) func() *geo.Resolver {
	var geocoder geo.Geocoder
	if cfg.TestMode || cfg.Maps.APIKey == "" {
		if !cfg.TestMode {
			logging.Warn(logger, "no maps API key configured, distances will be deterministic stand-ins")
		}
		geocoder = geo.StaticGeocoder{}
	} else {
		client, err := googlemaps.New(googlemaps.Config{
			APIKey:   cfg.Maps.APIKey,
			BaseURL:  cfg.Maps.BaseURL,
			Region:   cfg.Maps.Region,
			Language: cfg.Maps.Language,
			Timeout:  cfg.RequestTimeout,
		})
		if err != nil {
			logging.Error(logger, "maps client unavailable", err)
			geocoder = geo.StaticGeocoder{}
		} else {
			geocoder = client
		}
	}

	home := cfg.Club.HomeGymAddress
	return func() *geo.Resolver {
		return geo.NewResolver(geocoder, home,
			geo.WithRecorder(recorder),
			geo.WithLogger(logger),
			geo.WithRetry(cfg.RetryCount, cfg.RetryBackoff),
		)
	}
}
