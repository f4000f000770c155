package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeTrigger struct{ taskID string }

func (f fakeTrigger) TriggerPlayersRun() string { return f.taskID }

func TestTriggerReturns202WithTaskID(t *testing.T) {
	r := NewRouter(zerolog.New(io.Discard), fakeTrigger{taskID: "run-123"})

	req := httptest.NewRequest(http.MethodPost, "/pipelines/players/runs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if !strings.Contains(rec.Body.String(), `"run-123"`) || !strings.Contains(rec.Body.String(), `"queued"`) {
		t.Fatalf("body = %s, want task_id and status=queued", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	r := NewRouter(zerolog.New(io.Discard), fakeTrigger{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsExposesPrometheusFormat(t *testing.T) {
	r := NewRouter(zerolog.New(io.Discard), fakeTrigger{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
