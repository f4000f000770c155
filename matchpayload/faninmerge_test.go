package matchpayload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/ratelimit"
	"github.com/riftlabs/ladder-pipeline/riot"
)

func TestMergeYieldsBothStreamsForEveryMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	prevMatch, prevTimeline := matchByIDURLFn, timelineByIDURLFn
	matchByIDURLFn = func(_ riot.SuperShard, matchID string) string { return srv.URL + "/match/" + matchID }
	timelineByIDURLFn = func(_ riot.SuperShard, matchID string) string { return srv.URL + "/timeline/" + matchID }
	defer func() { matchByIDURLFn, timelineByIDURLFn = prevMatch, prevTimeline }()

	fetcher := httpfetch.New(ratelimit.NewRegistry(), "test-key", 10000, time.Second, nil, zerolog.New(io.Discard))

	matchIDs := []string{"NA1_1", "NA1_2", "EUW1_3"}
	counts := map[string]int{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for item := range Merge(ctx, fetcher, matchIDs, zerolog.New(io.Discard)) {
		if item.Result.Outcome != httpfetch.OK {
			t.Fatalf("unexpected outcome: %s", item.Result.Outcome)
		}
		counts[item.MatchID]++
	}

	for _, id := range matchIDs {
		if counts[id] != 2 {
			t.Fatalf("expected 2 items (non-timeline + timeline) for %s, got %d", id, counts[id])
		}
	}
}
