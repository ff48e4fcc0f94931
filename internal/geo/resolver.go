package geo

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/metrics"
)

// mapsProviderName labels the mapping upstream in metrics.
const mapsProviderName = "google-maps"

// Location is a geocoded point.
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Geocoder turns addresses into coordinates and routed distances.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
	DistanceKM(ctx context.Context, origin, destination string) (float64, error)
}

// Resolver resolves venue addresses against a fixed home address and
// caches results for its lifetime. A resolver is scoped to one user
// session, so the cache never mixes clubs.
type Resolver struct {
	geocoder Geocoder
	home     string
	recorder *metrics.Recorder
	logger   *slog.Logger

	retryCount   int
	retryBackoff time.Duration

	mu       sync.Mutex
	cache    map[string]domain.LocationResult
	homeLoc  *Location
	homeOnce sync.Once
	homeErr  error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec *metrics.Recorder) ResolverOption {
	return func(r *Resolver) { r.recorder = rec }
}

// WithLogger attaches a logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// WithRetry overrides attempt count and base backoff.
func WithRetry(count int, base time.Duration) ResolverOption {
	return func(r *Resolver) {
		if count > 0 {
			r.retryCount = count
		}
		if base > 0 {
			r.retryBackoff = base
		}
	}
}

// NewResolver builds a resolver anchored at homeAddress.
func NewResolver(g Geocoder, homeAddress string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		geocoder:     g,
		home:         homeAddress,
		cache:        make(map[string]domain.LocationResult),
		retryCount:   3,
		retryBackoff: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the distance from the home address to the venue
// address. Repeated calls for the same address return the cached result
// without touching the upstream service. An empty or blank address
// fails immediately with an invalid_address error.
func (r *Resolver) Resolve(ctx context.Context, address string) (domain.LocationResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		err := &Error{Kind: KindInvalidAddress, Detail: "empty address"}
		r.recorder.RecordGeocode(false, false, 0, err)
		return domain.LocationResult{}, err
	}

	r.mu.Lock()
	if cached, ok := r.cache[address]; ok {
		r.mu.Unlock()
		r.recorder.RecordGeocode(true, false, 0, nil)
		return cached, nil
	}
	r.mu.Unlock()

	start := time.Now()
	result, err := r.resolve(ctx, address)
	if err != nil {
		r.recorder.RecordGeocode(false, false, time.Since(start), err)
		return domain.LocationResult{}, err
	}
	r.recorder.RecordGeocode(false, result.Estimated, time.Since(start), nil)

	r.mu.Lock()
	r.cache[address] = result
	r.mu.Unlock()
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, address string) (domain.LocationResult, error) {
	venue, err := retryGeo(ctx, r, func() (Location, error) {
		return r.geocoder.Geocode(ctx, address)
	})
	if err != nil {
		return domain.LocationResult{}, err
	}

	result := domain.LocationResult{
		Address:         address,
		ResolvedAddress: venue.Address,
		Latitude:        venue.Latitude,
		Longitude:       venue.Longitude,
	}

	km, err := retryGeo(ctx, r, func() (float64, error) {
		return r.geocoder.DistanceKM(ctx, r.home, address)
	})
	if err == nil {
		result.DistanceKM = km
		return result, nil
	}
	if ge, ok := AsError(err); !ok || ge.Kind != KindInvalidAddress {
		// Network and quota failures surface as-is; the caller may
		// retry the whole request later.
		return domain.LocationResult{}, err
	}

	// The matrix knows both points but found no route between them.
	// Fall back to the straight-line distance so the trip is still
	// billable.
	home, homeErr := r.homeLocation(ctx)
	if homeErr != nil {
		return domain.LocationResult{}, err
	}
	logging.Warn(logging.FromContext(ctx, r.logger), "using straight-line distance fallback",
		slog.String(logging.FieldAddress, address),
		slog.Any("error", err),
	)
	result.DistanceKM = haversineKM(home.Latitude, home.Longitude, venue.Latitude, venue.Longitude)
	result.Estimated = true
	return result, nil
}

func (r *Resolver) homeLocation(ctx context.Context) (Location, error) {
	r.homeOnce.Do(func() {
		loc, err := retryGeo(ctx, r, func() (Location, error) {
			return r.geocoder.Geocode(ctx, r.home)
		})
		if err != nil {
			r.homeErr = err
			return
		}
		r.homeLoc = &loc
	})
	if r.homeErr != nil {
		return Location{}, r.homeErr
	}
	return *r.homeLoc, nil
}

func retryGeo[T any](ctx context.Context, r *Resolver, fn func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.retryBackoff
	bo.MaxElapsedTime = 0

	var wrapped backoff.BackOff = backoff.WithMaxRetries(bo, uint64(r.retryCount-1))
	wrapped = backoff.WithContext(wrapped, ctx)

	var result T
	op := func() error {
		var err error
		result, err = fn()
		if err == nil {
			return nil
		}
		if ge, ok := AsError(err); ok && ge.Kind == KindRateLimited {
			r.recorder.RecordRateLimit(mapsProviderName, ge.RetryAfter)
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, wrapped); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
