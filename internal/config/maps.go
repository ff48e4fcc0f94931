package config

const (
	envMapsAPIKey   = "GOOGLE_MAPS_API_KEY"
	envMapsBaseURL  = "GOOGLE_MAPS_BASE_URL"
	envMapsRegion   = "MAPS_REGION"
	envMapsLanguage = "MAPS_LANGUAGE"

	defaultMapsBaseURL  = "https://maps.googleapis.com"
	defaultMapsRegion   = "de"
	defaultMapsLanguage = "de"
)

// MapsConfig controls how we talk to the mapping API.
type MapsConfig struct {
	APIKey   string
	BaseURL  string
	Region   string
	Language string
}

func loadMaps() MapsConfig {
	return MapsConfig{
		APIKey:   envOrDefault(envMapsAPIKey, ""),
		BaseURL:  envOrDefault(envMapsBaseURL, defaultMapsBaseURL),
		Region:   envOrDefault(envMapsRegion, defaultMapsRegion),
		Language: envOrDefault(envMapsLanguage, defaultMapsLanguage),
	}
}
