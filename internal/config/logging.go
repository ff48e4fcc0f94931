package config

const (
	envLogLevel     = "LOG_LEVEL"
	envLogFile      = "LOG_FILE"
	envLogRotation  = "LOG_ROTATION_MB"
	envLogRetention = "LOG_RETENTION_DAYS"

	defaultLogRotationMB    = 500
	defaultLogRetentionDays = 10
)

// LoggingConfig controls log level and the optional rotating file sink.
type LoggingConfig struct {
	Level         string
	File          string
	RotationMB    int
	RetentionDays int
}

func loadLogging() LoggingConfig {
	return LoggingConfig{
		Level:         envOrDefault(envLogLevel, "info"),
		File:          envOrDefault(envLogFile, ""),
		RotationMB:    intEnvOrDefault(envLogRotation, defaultLogRotationMB),
		RetentionDays: intEnvOrDefault(envLogRetention, defaultLogRetentionDays),
	}
}
