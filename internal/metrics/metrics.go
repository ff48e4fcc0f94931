package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type geoStats struct {
	lookups   int
	cacheHits int
	fallbacks int
	errors    int
}

// Recorder captures lightweight, in-memory metrics about external calls.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu        sync.Mutex
	stats     map[string]*providerStats
	geo       geoStats
	documents int
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that an upstream response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordGeocode tracks one Resolve call. cacheHit marks lookups served from
// the session cache; fallback marks straight-line distance estimates.
func (r *Recorder) RecordGeocode(cacheHit, fallback bool, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.geo.lookups++
	if cacheHit {
		r.geo.cacheHits++
	}
	if fallback {
		r.geo.fallbacks++
	}
	if err != nil {
		r.geo.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordGeocode(cacheHit, fallback, duration, err)
	}
}

// RecordDocuments tracks generated expense documents.
func (r *Recorder) RecordDocuments(count int) {
	if r == nil || count <= 0 {
		return
	}

	r.mu.Lock()
	r.documents += count
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordDocuments(count)
	}
}

// RecordSessionSweep tracks janitor sweeps and how many sessions were pruned.
func (r *Recorder) RecordSessionSweep(pruned int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordSessionSweep(pruned, duration)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// GeoLookups returns the total Resolve calls recorded.
func (r *Recorder) GeoLookups() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geo.lookups
}

// GeoCacheHits returns the number of Resolve calls served from cache.
func (r *Recorder) GeoCacheHits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geo.cacheHits
}

// GeoFallbacks returns the number of straight-line distance estimates recorded.
func (r *Recorder) GeoFallbacks() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geo.fallbacks
}

// DocumentsGenerated returns the number of generated documents recorded.
func (r *Recorder) DocumentsGenerated() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.documents
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

func (r *Recorder) ensureStats(provider string) *providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}
