package config

const (
	envFederationBaseURL  = "FEDERATION_BASE_URL"
	envFederationVerband  = "FEDERATION_VERBAND"
	envFederationUsername = "FEDERATION_USERNAME"
	envFederationPassword = "FEDERATION_PASSWORD"

	defaultFederationBaseURL = "https://www.basketball-bund.net"
	defaultFederationVerband = 6
)

// FederationConfig controls how we talk to the federation site.
// Username/password are only needed for archive mode.
type FederationConfig struct {
	BaseURL  string
	Verband  int
	Username string
	Password string
}

func loadFederation() FederationConfig {
	return FederationConfig{
		BaseURL:  envOrDefault(envFederationBaseURL, defaultFederationBaseURL),
		Verband:  intEnvOrDefault(envFederationVerband, defaultFederationVerband),
		Username: envOrDefault(envFederationUsername, ""),
		Password: envOrDefault(envFederationPassword, ""),
	}
}
