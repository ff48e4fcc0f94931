package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoffBase   = 1 * time.Second
)

// retryingProvider wraps a LeagueProvider with retry/backoff behavior.
// Only transient network errors are retried; auth and parse failures
// surface immediately.
type retryingProvider struct {
	inner       LeagueProvider
	logger      *slog.Logger
	metrics     *metrics.Recorder
	name        string
	maxAttempts int
	base        time.Duration
}

// NewRetryingProvider wraps the given provider with exponential backoff
// retries. If maxAttempts/base are <= 0, defaults are used.
func NewRetryingProvider(inner LeagueProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, base time.Duration) LeagueProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if base <= 0 {
		base = defaultBackoffBase
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		metrics:     recorder,
		name:        name,
		maxAttempts: maxAttempts,
		base:        base,
	}
}

func (r *retryingProvider) FetchLeagues(ctx context.Context, season, clubFilter string) ([]domain.League, error) {
	return retryFetch(ctx, r, "leagues", func() ([]domain.League, error) {
		return r.inner.FetchLeagues(ctx, season, clubFilter)
	})
}

func (r *retryingProvider) FetchGames(ctx context.Context, leagueID, team string) ([]domain.Game, error) {
	return retryFetch(ctx, r, "games", func() ([]domain.Game, error) {
		return r.inner.FetchGames(ctx, leagueID, team)
	})
}

func (r *retryingProvider) FetchAttendees(ctx context.Context, gameID, leagueID string) ([]string, error) {
	return retryFetch(ctx, r, "attendees", func() ([]string, error) {
		return r.inner.FetchAttendees(ctx, gameID, leagueID)
	})
}

func retryFetch[T any](ctx context.Context, r *retryingProvider, op string, fetch func() (T, error)) (T, error) {
	var result T

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.base
	bo.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		start := time.Now()
		out, err := fetch()
		if r.metrics != nil {
			r.metrics.RecordProviderAttempt(r.name, time.Since(start), err)
		}
		if err == nil {
			result = out
			return nil
		}
		if rl, ok := AsRateLimitError(err); ok && r.metrics != nil {
			r.metrics.RecordRateLimit(r.name, rl.RetryAfter)
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		if attempt < r.maxAttempts {
			r.logWarn(ctx, "provider fetch retry",
				"op", op, "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.maxAttempts-1)), ctx))

	if err != nil {
		r.logWarn(ctx, "provider fetch failed", "op", op, "attempts", attempt, "err", err)
		return result, err
	}
	return result, nil
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, append(args, slog.String(logging.FieldProvider, r.name))...)
	}
}
