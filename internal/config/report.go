package config

import "github.com/shopspring/decimal"

const (
	envTemplatePath   = "TEMPLATE_PATH"
	envOutputDir      = "OUTPUT_DIR"
	envMaxPlayers     = "MAX_PLAYERS_PER_DOCUMENT"
	envRatePerUnit    = "RATE_PER_DISTANCE_UNIT"
	envDistanceUnit   = "DISTANCE_UNIT"
	envRoundTrip      = "ROUND_TRIP_BILLING"
	envReportKeepDays = "DOCUMENT_RETENTION_DAYS"

	defaultTemplatePath   = "templates/fahrtkosten.pdf"
	defaultOutputDir      = "data/reports"
	defaultMaxPlayers     = 5
	defaultRatePerUnit    = "0.30"
	defaultDistanceUnit   = "km"
	defaultReportKeepDays = 90
)

// ReportConfig controls document generation and the document store.
type ReportConfig struct {
	TemplatePath  string
	OutputDir     string
	MaxPlayers    int
	RatePerUnit   decimal.Decimal
	DistanceUnit  string // "km" or "mi"
	RoundTrip     bool
	RetentionDays int
}

func loadReport() ReportConfig {
	unit := envOrDefault(envDistanceUnit, defaultDistanceUnit)
	if unit != "km" && unit != "mi" {
		unit = defaultDistanceUnit
	}
	return ReportConfig{
		TemplatePath:  envOrDefault(envTemplatePath, defaultTemplatePath),
		OutputDir:     envOrDefault(envOutputDir, defaultOutputDir),
		MaxPlayers:    intEnvOrDefault(envMaxPlayers, defaultMaxPlayers),
		RatePerUnit:   decimalEnvOrDefault(envRatePerUnit, defaultRatePerUnit),
		DistanceUnit:  unit,
		RoundTrip:     boolEnvOrDefault(envRoundTrip, true),
		RetentionDays: intEnvOrDefault(envReportKeepDays, defaultReportKeepDays),
	}
}
