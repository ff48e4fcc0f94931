package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"fahrtkosten-service/internal/config"
	"fahrtkosten-service/internal/testutil"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("PORT", "0")
	t.Setenv("TEST_MODE", "1")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OUTPUT_DIR", t.TempDir())
	t.Setenv("CLUB_NAME", "BC Musterstadt")
	t.Setenv("HOME_GYM_ADDRESS", "Heimweg 1, 64283 Darmstadt")
	return config.Load()
}

func TestNewTestModeServesUI(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, nil)

	srv := testutil.Serve(t, s.httpServer.Handler())

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	testutil.AssertStatus(t, resp, http.StatusOK)
	body := testutil.ReadBody(t, resp)
	if !strings.Contains(body, "Testmodus") {
		t.Error("test mode banner missing")
	}
	if !strings.Contains(body, "BC Musterstadt") {
		t.Error("club name missing")
	}
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, nil)
	srv := testutil.Serve(t, s.httpServer.Handler())

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	testutil.AssertStatus(t, resp, http.StatusOK)

	// Test mode is ready even without a PDF template on disk.
	resp, err = srv.Client().Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	testutil.AssertStatus(t, resp, http.StatusOK)
}

func TestReadyReportsMissingTemplateOutsideTestMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.TestMode = false
	cfg.Federation.BaseURL = "http://127.0.0.1:0" // never dialed in this test
	s := New(cfg, nil)
	srv := testutil.Serve(t, s.httpServer.Handler())

	resp, err := srv.Client().Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	testutil.AssertStatus(t, resp, http.StatusServiceUnavailable)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
