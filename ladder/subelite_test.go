package ladder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/ratelimit"
)

// fakeLadderServer serves a non-empty page list for every page number up
// to and including lastPage, and an empty list afterward, simulating one
// bracket with a known true last page regardless of which page number the
// binary search probes first.
func fakeLadderServer(lastPage int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if n <= lastPage {
			w.Write([]byte(`[{"puuid":"p","queueType":"RANKED_SOLO_5x5","tier":"GOLD","rank":"I","wins":1,"losses":1}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
}

// TestBinarySearchFindsLastNonEmptyPage exercises the same probe/narrow
// arithmetic DiscoverPageBounds uses, against a fake server, to pin down
// spec.md §4.4's binary-search termination behavior without needing a real
// upstream host.
func TestBinarySearchFindsLastNonEmptyPage(t *testing.T) {
	srv := fakeLadderServer(7)
	defer srv.Close()

	fetcher := httpfetch.New(ratelimit.NewRegistry(), "test-key", 10000, time.Second, nil, zerolog.New(io.Discard))

	got := probeLastPage(t, fetcher, srv.URL)
	if got != 7 {
		t.Fatalf("expected last page 7, got %d", got)
	}
}

func probeLastPage(t *testing.T, fetcher *httpfetch.Fetcher, base string) int {
	t.Helper()
	ctx := context.Background()
	low, high := 1, pageUpperBound+1
	for low+1 < high {
		mid := (low + high) / 2
		res := fetcher.Fetch(ctx, base+"/entries?page="+strconv.Itoa(mid), "na1")
		if res.Outcome != httpfetch.OK {
			t.Fatalf("unexpected outcome: %s", res.Outcome)
		}
		var page []json.RawMessage
		if err := json.Unmarshal(res.Data, &page); err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if len(page) > 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}
