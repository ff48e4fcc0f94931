package config

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	TestMode       bool
	Timezone       string
	RetryCount     int
	RetryBackoff   Duration
	RequestTimeout Duration

	Club       ClubConfig
	Federation FederationConfig
	Maps       MapsConfig
	Report     ReportConfig
	Session    SessionConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// ClubConfig identifies the club the reports are generated for.
type ClubConfig struct {
	Name           string
	HomeGymAddress string
	Season         string
	EventType      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:           envOrDefault(envPort, defaultPort),
		TestMode:       boolEnvOrDefault(envTestMode, false),
		Timezone:       envOrDefault(envTimezone, defaultTimezone),
		RetryCount:     intEnvOrDefault(envRetryCount, defaultRetryCount),
		RetryBackoff:   durationEnvOrDefault(envRetryBackoff, defaultRetryBackoff),
		RequestTimeout: durationEnvOrDefault(envRequestTimeout, defaultRequestTimeout),
		Club:           loadClub(),
		Federation:     loadFederation(),
		Maps:           loadMaps(),
		Report:         loadReport(),
		Session:        loadSession(),
		Logging:        loadLogging(),
		Metrics:        loadMetrics(),
	}
}

func loadClub() ClubConfig {
	return ClubConfig{
		Name:           envOrDefault(envClubName, ""),
		HomeGymAddress: envOrDefault(envHomeGymAddress, ""),
		Season:         envOrDefault(envSeason, ""),
		EventType:      envOrDefault(envEventType, defaultEventType),
	}
}
