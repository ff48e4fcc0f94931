package config

import "time"

const (
	envSessionTTL   = "SESSION_TTL"
	envSessionSweep = "SESSION_SWEEP_INTERVAL"

	defaultSessionTTL   = 30 * Duration(time.Minute)
	defaultSessionSweep = 5 * Duration(time.Minute)
)

// SessionConfig controls UI session lifetime and janitor cadence.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func loadSession() SessionConfig {
	return SessionConfig{
		TTL:           durationEnvOrDefault(envSessionTTL, defaultSessionTTL),
		SweepInterval: durationEnvOrDefault(envSessionSweep, defaultSessionSweep),
	}
}
