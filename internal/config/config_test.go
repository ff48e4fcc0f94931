package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.TestMode {
		t.Fatal("expected test mode off by default")
	}
	if cfg.RetryCount != defaultRetryCount {
		t.Fatalf("expected retry count %d, got %d", defaultRetryCount, cfg.RetryCount)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("expected request timeout %s, got %s", defaultRequestTimeout, cfg.RequestTimeout)
	}
	if cfg.Federation.BaseURL != defaultFederationBaseURL {
		t.Fatalf("expected default federation base url, got %s", cfg.Federation.BaseURL)
	}
	if cfg.Federation.Verband != defaultFederationVerband {
		t.Fatalf("expected default verband, got %d", cfg.Federation.Verband)
	}
	if cfg.Maps.BaseURL != defaultMapsBaseURL {
		t.Fatalf("expected default maps base url, got %s", cfg.Maps.BaseURL)
	}
	if cfg.Report.MaxPlayers != defaultMaxPlayers {
		t.Fatalf("expected default max players %d, got %d", defaultMaxPlayers, cfg.Report.MaxPlayers)
	}
	if !cfg.Report.RatePerUnit.Equal(decimal.RequireFromString(defaultRatePerUnit)) {
		t.Fatalf("expected default rate %s, got %s", defaultRatePerUnit, cfg.Report.RatePerUnit)
	}
	if cfg.Report.DistanceUnit != "km" {
		t.Fatalf("expected km default unit, got %s", cfg.Report.DistanceUnit)
	}
	if !cfg.Report.RoundTrip {
		t.Fatal("expected round-trip billing on by default")
	}
	if cfg.Session.TTL != defaultSessionTTL {
		t.Fatalf("expected session ttl %s, got %s", defaultSessionTTL, cfg.Session.TTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envTestMode, "true")
	t.Setenv(envRetryCount, "5")
	t.Setenv(envRequestTimeout, "20s")
	t.Setenv(envClubName, "BC Musterstadt")
	t.Setenv(envHomeGymAddress, "Musterweg 1, 12345 Musterstadt")
	t.Setenv(envMapsAPIKey, "secret-key")
	t.Setenv(envRatePerUnit, "0.35")
	t.Setenv(envDistanceUnit, "mi")
	t.Setenv(envMaxPlayers, "20")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if !cfg.TestMode {
		t.Fatal("expected test mode on")
	}
	if cfg.RetryCount != 5 {
		t.Fatalf("expected retry count 5, got %d", cfg.RetryCount)
	}
	if cfg.RequestTimeout != 20*time.Second {
		t.Fatalf("expected request timeout 20s, got %s", cfg.RequestTimeout)
	}
	if cfg.Club.Name != "BC Musterstadt" {
		t.Fatalf("expected club name override, got %s", cfg.Club.Name)
	}
	if cfg.Maps.APIKey != "secret-key" {
		t.Fatalf("expected maps api key override, got %s", cfg.Maps.APIKey)
	}
	if !cfg.Report.RatePerUnit.Equal(decimal.RequireFromString("0.35")) {
		t.Fatalf("expected rate 0.35, got %s", cfg.Report.RatePerUnit)
	}
	if cfg.Report.DistanceUnit != "mi" {
		t.Fatalf("expected miles, got %s", cfg.Report.DistanceUnit)
	}
	if cfg.Report.MaxPlayers != 20 {
		t.Fatalf("expected max players 20, got %d", cfg.Report.MaxPlayers)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv(envRequestTimeout, "not-a-duration")
	t.Setenv(envRetryCount, "-2")
	t.Setenv(envRatePerUnit, "free")
	t.Setenv(envDistanceUnit, "furlong")

	cfg := Load()

	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("expected default request timeout on invalid value, got %s", cfg.RequestTimeout)
	}
	if cfg.RetryCount != defaultRetryCount {
		t.Fatalf("expected default retry count on invalid value, got %d", cfg.RetryCount)
	}
	if !cfg.Report.RatePerUnit.Equal(decimal.RequireFromString(defaultRatePerUnit)) {
		t.Fatalf("expected default rate on invalid value, got %s", cfg.Report.RatePerUnit)
	}
	if cfg.Report.DistanceUnit != "km" {
		t.Fatalf("expected km on invalid unit, got %s", cfg.Report.DistanceUnit)
	}
}
