package httpfetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/ratelimit"
)

func testFetcher() *Fetcher {
	registry := ratelimit.NewRegistry()
	logger := zerolog.New(io.Discard)
	return New(registry, "test-key", 1000, time.Second, nil, logger)
}

func TestFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hello":"world"}`))
	}))
	defer srv.Close()

	res := testFetcher().Fetch(context.Background(), srv.URL, "na1")
	if res.Outcome != OK {
		t.Fatalf("expected OK, got %s", res.Outcome)
	}
	var m map[string]any
	if err := json.Unmarshal(res.Data, &m); err != nil || m["hello"] != "world" {
		t.Fatalf("unexpected decoded body: %s (err=%v)", res.Data, err)
	}
}

func TestFetchHTTPNonRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	res := testFetcher().Fetch(context.Background(), srv.URL, "na1")
	if res.Outcome != HTTPNonRetryable {
		t.Fatalf("expected HTTP_NON_RETRYABLE, got %s", res.Outcome)
	}
	if res.Status != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", res.Status)
	}
}

func TestFetchNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	res := testFetcher().Fetch(context.Background(), srv.URL, "na1")
	if res.Outcome != NonJSON {
		t.Fatalf("expected NON_JSON, got %s", res.Outcome)
	}
}

func TestFetchRetriesThenExhausts(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := New(ratelimit.NewRegistry(), "test-key", 1000, time.Second, nil, zerolog.New(io.Discard))
	res := f.Fetch(context.Background(), srv.URL, "na1")

	if res.Outcome != RetryExhausted {
		t.Fatalf("expected RETRY_EXHAUSTED, got %s", res.Outcome)
	}
	if got := atomic.LoadInt64(&attempts); got != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, got)
	}
}

func TestMaskSecretRedactsAPIKey(t *testing.T) {
	in := "https://na1.api.riotgames.com/lol/foo?api_key=RGAPI-secret-value&x=1"
	got := maskSecret(in)
	if got == in {
		t.Fatal("expected the api_key value to be redacted")
	}
	if got == "" {
		t.Fatal("expected a non-empty masked url")
	}
}
