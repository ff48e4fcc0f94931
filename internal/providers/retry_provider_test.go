package providers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/metrics"
)

type flakeyProvider struct {
	failures int
	calls    int
	err      error
}

func (f *flakeyProvider) FetchLeagues(ctx context.Context, season, clubFilter string) ([]domain.League, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []domain.League{{ID: "47", Name: "Bezirksliga"}}, nil
}

func (f *flakeyProvider) FetchGames(ctx context.Context, leagueID, team string) ([]domain.Game, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []domain.Game{{ID: "ok"}}, nil
}

func (f *flakeyProvider) FetchAttendees(ctx context.Context, gameID, leagueID string) ([]string, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []string{"Schmidt, Anna"}, nil
}

func TestRetryingProviderRetriesNetworkErrors(t *testing.T) {
	fp := &flakeyProvider{failures: 2, err: &FetchError{Kind: KindNetwork, Detail: "timeout"}}
	rec := metrics.NewRecorder()
	rp := NewRetryingProvider(fp, slog.Default(), rec, "flakey", 3, time.Millisecond)

	games, err := rp.FetchGames(context.Background(), "47", "")
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(games) != 1 || games[0].ID != "ok" {
		t.Fatalf("unexpected games %+v", games)
	}
	if fp.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls)
	}
	if rec.ProviderCalls("flakey") != 3 {
		t.Fatalf("expected 3 recorded attempts, got %d", rec.ProviderCalls("flakey"))
	}
}

func TestRetryingProviderRetriesAndRecordsRateLimits(t *testing.T) {
	fp := &flakeyProvider{failures: 1, err: &RateLimitError{Provider: "flakey", StatusCode: 429, RetryAfter: 20 * time.Second}}
	rec := metrics.NewRecorder()
	rp := NewRetryingProvider(fp, nil, rec, "flakey", 3, time.Millisecond)

	games, err := rp.FetchGames(context.Background(), "47", "")
	if err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("unexpected games %+v", games)
	}
	if rec.RateLimitHits("flakey") != 1 {
		t.Fatalf("expected 1 recorded rate limit, got %d", rec.RateLimitHits("flakey"))
	}
	if got := rec.Snapshot("flakey").LastRetryAfter; got != 20*time.Second {
		t.Fatalf("LastRetryAfter = %v, want 20s", got)
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &FetchError{Kind: KindNetwork, Detail: "timeout"}}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 2, time.Millisecond)

	_, err := rp.FetchGames(context.Background(), "47", "")
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if fp.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderDoesNotRetryAuthErrors(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &FetchError{Kind: KindAuth, Detail: "login rejected"}}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	_, err := rp.FetchLeagues(context.Background(), "2024", "BC Musterstadt")
	if err == nil {
		t.Fatal("expected auth error")
	}
	if fp.calls != 1 {
		t.Fatalf("auth errors must not retry, got %d attempts", fp.calls)
	}
	fe, ok := AsFetchError(err)
	if !ok || fe.Kind != KindAuth {
		t.Fatalf("expected auth FetchError, got %v", err)
	}
}

func TestRetryingProviderDoesNotRetryParseErrors(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &FetchError{Kind: KindParse, Detail: "unexpected markup"}}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	_, err := rp.FetchAttendees(context.Background(), "g-1", "47")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if fp.calls != 1 {
		t.Fatalf("parse errors must not retry, got %d attempts", fp.calls)
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &FetchError{Kind: KindNetwork, Detail: "timeout"}}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rp.FetchGames(ctx, "47", "")
	if err == nil {
		t.Fatal("expected error with canceled context")
	}
	if fp.calls > 1 {
		t.Fatalf("expected at most one attempt, got %d", fp.calls)
	}
}
