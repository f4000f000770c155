package matchids

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/ratelimit"
	"github.com/riftlabs/ladder-pipeline/riot"
)

// fakeMatchIDServer returns exactly maxPageCount ids per page until the
// crawl has produced total ids, then a short final page, so a correct
// crawler issues ceil(total/maxPageCount) requests and terminates.
func fakeMatchIDServer(t *testing.T, total int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := url.ParseQuery(r.URL.RawQuery)
		if err != nil {
			t.Fatalf("bad query: %v", err)
		}
		start, _ := strconv.Atoi(q.Get("start"))

		remaining := total - start
		if remaining < 0 {
			remaining = 0
		}
		n := remaining
		if n > maxPageCount {
			n = maxPageCount
		}

		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("NA1_%d", start+i)
		}
		body, _ := json.Marshal(ids)
		w.Write(body)
	}))
}

func TestStreamTerminatesAndCrawlsAllPages(t *testing.T) {
	srv := fakeMatchIDServer(t, 250) // 3 pages: 100, 100, 50
	defer srv.Close()

	fetcher := httpfetch.New(ratelimit.NewRegistry(), "test-key", 10000, time.Second, nil, zerolog.New(io.Discard))

	initial := []State{{
		PUUID:         "p1",
		Queue:         riot.QueueSolo,
		SuperShard:    riot.SuperShardAmericas,
		StartTime:     0,
		NextPageStart: 0,
	}}

	prevURLFn := urlForState
	urlForState = func(s State, endTime int64) string {
		return fmt.Sprintf("%s/ids?start=%d&endTime=%d", srv.URL, s.NextPageStart, endTime)
	}
	defer func() { urlForState = prevURLFn }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var total int
	var pages int
	for page := range Stream(ctx, fetcher, initial, 1_700_000_000, zerolog.New(io.Discard)) {
		if page.Err != nil {
			t.Fatalf("unexpected page error: %v", page.Err)
		}
		total += len(page.IDs)
		pages++
	}

	if total != 250 {
		t.Fatalf("expected 250 total ids, got %d", total)
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestStateAdvancesByMaxPageCount(t *testing.T) {
	st := State{NextPageStart: 0}
	next := st.advanced()
	if next.NextPageStart != maxPageCount {
		t.Fatalf("expected next_page_start=%d, got %d", maxPageCount, next.NextPageStart)
	}
}

func TestStateNeverAdvancesPastMaxPageStart(t *testing.T) {
	st := State{NextPageStart: maxPageStart}
	if st.NextPageStart != maxPageStart {
		t.Fatal("precondition violated")
	}

	// Every page the fake server returns is full, so only the
	// NextPageStart != maxPageStart guard in runOne can end the crawl.
	srv := fakeMatchIDServer(t, 100*maxPageCount)
	defer srv.Close()

	fetcher := httpfetch.New(ratelimit.NewRegistry(), "test-key", 10000, time.Second, nil, zerolog.New(io.Discard))

	prevURLFn := urlForState
	urlForState = func(s State, endTime int64) string {
		return fmt.Sprintf("%s/ids?start=%d&endTime=%d", srv.URL, s.NextPageStart, endTime)
	}
	defer func() { urlForState = prevURLFn }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	initial := []State{{PUUID: "p1", Queue: riot.QueueSolo, SuperShard: riot.SuperShardAmericas}}
	var pages int
	highest := -1
	for page := range Stream(ctx, fetcher, initial, 1_700_000_000, zerolog.New(io.Discard)) {
		if page.Err != nil {
			t.Fatalf("unexpected page error: %v", page.Err)
		}
		if page.State.NextPageStart > highest {
			highest = page.State.NextPageStart
		}
		pages++
	}

	if highest != maxPageStart {
		t.Fatalf("highest page start = %d, want %d", highest, maxPageStart)
	}
	if want := maxPageStart/maxPageCount + 1; pages != want {
		t.Fatalf("expected %d pages, got %d", want, pages)
	}
}
