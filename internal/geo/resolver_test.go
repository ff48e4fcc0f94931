package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"fahrtkosten-service/internal/metrics"
)

type stubGeocoder struct {
	geocodeCalls  int
	distanceCalls int

	geocode  func(address string) (Location, error)
	distance func(origin, destination string) (float64, error)
}

func (s *stubGeocoder) Geocode(_ context.Context, address string) (Location, error) {
	s.geocodeCalls++
	if s.geocode != nil {
		return s.geocode(address)
	}
	return Location{Address: address, Latitude: 49.87, Longitude: 8.65}, nil
}

func (s *stubGeocoder) DistanceKM(_ context.Context, origin, destination string) (float64, error) {
	s.distanceCalls++
	if s.distance != nil {
		return s.distance(origin, destination)
	}
	return 12.3, nil
}

func TestResolveCachesRepeatedLookups(t *testing.T) {
	stub := &stubGeocoder{}
	rec := metrics.NewRecorder()
	r := NewResolver(stub, "Heimweg 1, 64283 Darmstadt", WithRecorder(rec), WithRetry(1, time.Millisecond))

	first, err := r.Resolve(context.Background(), "Bergstraße 12, 64293 Darmstadt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(context.Background(), "Bergstraße 12, 64293 Darmstadt")
	if err != nil {
		t.Fatalf("Resolve cached: %v", err)
	}
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if stub.geocodeCalls != 1 || stub.distanceCalls != 1 {
		t.Errorf("expected one geocode and one distance call, got %d and %d",
			stub.geocodeCalls, stub.distanceCalls)
	}
	if rec.GeoCacheHits() != 1 {
		t.Errorf("GeoCacheHits = %d, want 1", rec.GeoCacheHits())
	}
	if first.DistanceKM != 12.3 {
		t.Errorf("DistanceKM = %v, want 12.3", first.DistanceKM)
	}
	if first.Estimated {
		t.Error("routed distance must not be flagged as estimated")
	}
}

func TestResolveEmptyAddressFailsWithoutCalls(t *testing.T) {
	for _, address := range []string{"", "   ", "\t\n"} {
		stub := &stubGeocoder{}
		r := NewResolver(stub, "Heimweg 1", WithRetry(1, time.Millisecond))

		_, err := r.Resolve(context.Background(), address)
		ge, ok := AsError(err)
		if !ok || ge.Kind != KindInvalidAddress {
			t.Fatalf("address %q: expected invalid_address error, got %v", address, err)
		}
		if stub.geocodeCalls != 0 || stub.distanceCalls != 0 {
			t.Errorf("address %q: expected zero upstream calls, got %d geocode and %d distance",
				address, stub.geocodeCalls, stub.distanceCalls)
		}
	}
}

func TestResolveStraightLineFallback(t *testing.T) {
	stub := &stubGeocoder{
		geocode: func(address string) (Location, error) {
			if address == "Heimweg 1, 64283 Darmstadt" {
				return Location{Address: address, Latitude: 49.8728, Longitude: 8.6512}, nil
			}
			return Location{Address: address, Latitude: 49.9560, Longitude: 8.6512}, nil
		},
		distance: func(origin, destination string) (float64, error) {
			return 0, &Error{Kind: KindInvalidAddress, Detail: "no route"}
		},
	}
	rec := metrics.NewRecorder()
	r := NewResolver(stub, "Heimweg 1, 64283 Darmstadt", WithRecorder(rec), WithRetry(1, time.Millisecond))

	result, err := r.Resolve(context.Background(), "Talstraße 3, 64711 Erbach")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !result.Estimated {
		t.Error("fallback result must be flagged as estimated")
	}
	// 0.0832 degrees of latitude are roughly 9.25 km.
	if result.DistanceKM < 9.0 || result.DistanceKM > 9.5 {
		t.Errorf("DistanceKM = %v, want ~9.25", result.DistanceKM)
	}
	if rec.GeoFallbacks() != 1 {
		t.Errorf("GeoFallbacks = %d, want 1", rec.GeoFallbacks())
	}
}

func TestResolveRetriesNetworkErrors(t *testing.T) {
	attempts := 0
	stub := &stubGeocoder{
		geocode: func(address string) (Location, error) {
			attempts++
			if attempts < 3 {
				return Location{}, &Error{Kind: KindNetwork, Err: errors.New("timeout")}
			}
			return Location{Address: address, Latitude: 49.9, Longitude: 8.7}, nil
		},
	}
	r := NewResolver(stub, "Heimweg 1", WithRetry(3, time.Millisecond))

	if _, err := r.Resolve(context.Background(), "Musterhalle"); err != nil {
		t.Fatalf("Resolve after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("geocode attempts = %d, want 3", attempts)
	}
}

func TestResolveSurfacesDistanceNetworkError(t *testing.T) {
	stub := &stubGeocoder{
		distance: func(string, string) (float64, error) {
			return 0, &Error{Kind: KindNetwork, Err: errors.New("connection reset")}
		},
	}
	r := NewResolver(stub, "Heimweg 1", WithRetry(2, time.Millisecond))

	_, err := r.Resolve(context.Background(), "Talstraße 3, 64711 Erbach")
	ge, ok := AsError(err)
	if !ok || ge.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
	if stub.distanceCalls != 2 {
		t.Errorf("distance attempts = %d, want 2", stub.distanceCalls)
	}
}

func TestResolveRecordsRateLimits(t *testing.T) {
	stub := &stubGeocoder{
		geocode: func(string) (Location, error) {
			return Location{}, &Error{Kind: KindRateLimited, RetryAfter: 30 * time.Second}
		},
	}
	rec := metrics.NewRecorder()
	r := NewResolver(stub, "Heimweg 1", WithRecorder(rec), WithRetry(2, time.Millisecond))

	_, err := r.Resolve(context.Background(), "Musterhalle")
	ge, ok := AsError(err)
	if !ok || ge.Kind != KindRateLimited {
		t.Fatalf("expected rate_limited error, got %v", err)
	}
	if hits := rec.RateLimitHits("google-maps"); hits != 2 {
		t.Errorf("RateLimitHits = %d, want 2", hits)
	}
	if got := rec.Snapshot("google-maps").LastRetryAfter; got != 30*time.Second {
		t.Errorf("LastRetryAfter = %v, want 30s", got)
	}
}

func TestResolveDoesNotRetryInvalidAddress(t *testing.T) {
	attempts := 0
	stub := &stubGeocoder{
		geocode: func(string) (Location, error) {
			attempts++
			return Location{}, &Error{Kind: KindInvalidAddress, Detail: "zero results"}
		},
	}
	r := NewResolver(stub, "Heimweg 1", WithRetry(3, time.Millisecond))

	_, err := r.Resolve(context.Background(), "???")
	ge, ok := AsError(err)
	if !ok || ge.Kind != KindInvalidAddress {
		t.Fatalf("expected invalid_address error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("geocode attempts = %d, want 1", attempts)
	}
}
