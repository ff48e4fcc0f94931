package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{Kind: KindNetwork, Provider: "basketballbund", StatusCode: 502, Detail: "bad gateway"}
	msg := err.Error()
	if !strings.Contains(msg, "network") || !strings.Contains(msg, "status=502") {
		t.Fatalf("unexpected message %q", msg)
	}

	wrapped := &FetchError{Kind: KindParse, Err: errors.New("missing cell")}
	if !strings.Contains(wrapped.Error(), "missing cell") {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}

func TestAsFetchErrorUnwrapsChain(t *testing.T) {
	inner := &FetchError{Kind: KindAuth, Detail: "login rejected"}
	err := fmt.Errorf("fetch games: %w", inner)

	fe, ok := AsFetchError(err)
	if !ok {
		t.Fatal("expected FetchError in chain")
	}
	if fe.Kind != KindAuth {
		t.Fatalf("unexpected kind %s", fe.Kind)
	}

	if _, ok := AsFetchError(errors.New("plain")); ok {
		t.Fatal("plain error should not match")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(&FetchError{Kind: KindNetwork}) {
		t.Fatal("network errors are retryable")
	}
	if Retryable(&FetchError{Kind: KindAuth}) {
		t.Fatal("auth errors are not retryable")
	}
	if Retryable(&FetchError{Kind: KindParse}) {
		t.Fatal("parse errors are not retryable")
	}
	if Retryable(errors.New("plain")) {
		t.Fatal("untyped errors are not retryable")
	}
	if !Retryable(&RateLimitError{Provider: "maps", StatusCode: 429}) {
		t.Fatal("rate limits are retryable")
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{Provider: "maps", StatusCode: 429, RetryAfter: time.Second}
	if !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	rl, ok := AsRateLimitError(fmt.Errorf("resolve: %w", err))
	if !ok || rl.RetryAfter != time.Second {
		t.Fatalf("expected rate limit error, got %v %v", rl, ok)
	}
}
