package config

import "time"

const (
	envPort           = "PORT"
	envTestMode       = "TEST_MODE"
	envTimezone       = "TIMEZONE"
	envRetryCount     = "RETRY_COUNT"
	envRetryBackoff   = "RETRY_BACKOFF_BASE"
	envRequestTimeout = "REQUEST_TIMEOUT"

	envClubName       = "CLUB_NAME"
	envHomeGymAddress = "HOME_GYM_ADDRESS"
	envSeason         = "SEASON"
	envEventType      = "EVENT_TYPE"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort           = "4000"
	defaultTimezone       = "Europe/Berlin"
	defaultRetryCount     = 3
	defaultRetryBackoff   = 1 * Duration(time.Second)
	defaultRequestTimeout = 10 * Duration(time.Second)
	defaultEventType      = "Meisterschaftsspiel"
	defaultMetricsPort    = "9090"
)
